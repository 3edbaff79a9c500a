package service

import (
	"bank-ledger-api/model"
	"bank-ledger-api/repository"
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// mockLedgerStore is a mock implementation of repository.ILedgerStore.
// RunInAccountTx hands tx to the callback unless an error is configured.
type mockLedgerStore struct {
	mock.Mock
	tx *mockLedgerTx
}

func (m *mockLedgerStore) CreateAccount(ctx context.Context, account *model.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *mockLedgerStore) GetAccountByID(ctx context.Context, accountID int64) (*model.Account, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockLedgerStore) GetAccountsByOwnerID(ctx context.Context, ownerID string) ([]*model.Account, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Account), args.Error(1)
}

func (m *mockLedgerStore) GetTransactionsByAccountID(ctx context.Context, accountID int64) ([]*model.Transaction, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *mockLedgerStore) RunInAccountTx(ctx context.Context, accountID int64, fn func(tx repository.ILedgerTx) error) error {
	args := m.Called(accountID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.tx)
}

type mockLedgerTx struct{ mock.Mock }

func (m *mockLedgerTx) GetAccountForUpdate(ctx context.Context, accountID int64) (*model.Account, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockLedgerTx) UpdateAccountBalance(ctx context.Context, accountID int64, newBalance decimal.Decimal) error {
	args := m.Called(accountID, newBalance.String())
	return args.Error(0)
}

func (m *mockLedgerTx) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	args := m.Called(transaction)
	return args.Error(0)
}

func (m *mockLedgerTx) GetTransactionByIdempotencyKey(ctx context.Context, accountID int64, key string) (*model.Transaction, error) {
	args := m.Called(accountID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *mockLedgerTx) DeleteAccount(ctx context.Context, accountID int64) error {
	args := m.Called(accountID)
	return args.Error(0)
}

// mockCacheClient is a mock implementation of ICacheClient.
type mockCacheClient struct{ mock.Mock }

func (m *mockCacheClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *mockCacheClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *mockCacheClient) Incr(ctx context.Context, key string) *redis.IntCmd {
	args := m.Called(key)
	return args.Get(0).(*redis.IntCmd)
}
