// file: repository/postgres_store.go

package repository

import (
	"bank-ledger-api/model"
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// PostgresStore implements ILedgerStore on top of the account and
// transaction repositories. Per-account serialization comes from the
// SELECT ... FOR UPDATE row lock taken by GetAccountForUpdate.
type PostgresStore struct {
	DB           *sql.DB
	accounts     *AccountRepository
	transactions *TransactionRepository
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		DB:           db,
		accounts:     NewAccountRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *model.Account) error {
	return s.accounts.CreateAccount(ctx, account)
}

func (s *PostgresStore) GetAccountByID(ctx context.Context, accountID int64) (*model.Account, error) {
	return s.accounts.GetAccountByID(ctx, accountID)
}

func (s *PostgresStore) GetAccountsByOwnerID(ctx context.Context, ownerID string) ([]*model.Account, error) {
	return s.accounts.GetAccountsByOwnerID(ctx, ownerID)
}

func (s *PostgresStore) GetTransactionsByAccountID(ctx context.Context, accountID int64) ([]*model.Transaction, error) {
	return s.transactions.GetTransactionsByAccountID(ctx, accountID)
}

func (s *PostgresStore) RunInAccountTx(ctx context.Context, accountID int64, fn func(tx ILedgerTx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&postgresTx{tx: tx, store: s}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

type postgresTx struct {
	tx    *sql.Tx
	store *PostgresStore
}

func (t *postgresTx) GetAccountForUpdate(ctx context.Context, accountID int64) (*model.Account, error) {
	return t.store.accounts.GetAccountForUpdate(ctx, t.tx, accountID)
}

func (t *postgresTx) UpdateAccountBalance(ctx context.Context, accountID int64, newBalance decimal.Decimal) error {
	return t.store.accounts.UpdateAccountBalance(ctx, t.tx, accountID, newBalance)
}

func (t *postgresTx) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	return t.store.transactions.CreateTransaction(ctx, t.tx, transaction)
}

func (t *postgresTx) GetTransactionByIdempotencyKey(ctx context.Context, accountID int64, key string) (*model.Transaction, error) {
	return t.store.transactions.GetTransactionByIdempotencyKey(ctx, t.tx, accountID, key)
}

func (t *postgresTx) DeleteAccount(ctx context.Context, accountID int64) error {
	return t.store.accounts.DeleteAccount(ctx, t.tx, accountID)
}
