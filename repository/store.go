// file: repository/store.go

package repository

import (
	"bank-ledger-api/model"
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDuplicateIdempotencyKey is returned when a transaction reuses an
// idempotency key already recorded for the same account.
var ErrDuplicateIdempotencyKey = errors.New("idempotency key already used for this account")

// ILedgerTx is the unit of work passed to RunInAccountTx. Every write made
// through it is committed together with the others or not at all.
type ILedgerTx interface {
	GetAccountForUpdate(ctx context.Context, accountID int64) (*model.Account, error)
	UpdateAccountBalance(ctx context.Context, accountID int64, newBalance decimal.Decimal) error
	CreateTransaction(ctx context.Context, transaction *model.Transaction) error
	GetTransactionByIdempotencyKey(ctx context.Context, accountID int64, key string) (*model.Transaction, error)
	DeleteAccount(ctx context.Context, accountID int64) error
}

// ILedgerStore defines the contract for account and transaction storage.
// Lookups that find nothing return sql.ErrNoRows.
type ILedgerStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByID(ctx context.Context, accountID int64) (*model.Account, error)
	GetAccountsByOwnerID(ctx context.Context, ownerID string) ([]*model.Account, error)
	GetTransactionsByAccountID(ctx context.Context, accountID int64) ([]*model.Transaction, error)

	// RunInAccountTx runs fn while holding the lock for accountID. Concurrent
	// calls for the same account are serialized; calls for different accounts
	// are not. If fn returns an error nothing it wrote is kept.
	RunInAccountTx(ctx context.Context, accountID int64, fn func(tx ILedgerTx) error) error
}
