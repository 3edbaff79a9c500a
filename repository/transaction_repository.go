package repository

import (
	"bank-ledger-api/logger"
	"bank-ledger-api/model"
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// TransactionRepository reads and appends rows of the transactions table.
// Rows are never updated or deleted.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) CreateTransaction(ctx context.Context, tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": transaction.AccountID,
		"amount":     transaction.Amount.String(),
		"kind":       transaction.Kind,
	})
	log.Info("Executing query to create a new transaction")

	// posted_at is read while the account lock is held, not at BEGIN.
	query := `INSERT INTO transactions (account_id, amount, kind, idempotency_key, posted_at) VALUES ($1, $2, $3, NULLIF($4, ''), clock_timestamp()) RETURNING id, posted_at`
	err := tx.QueryRowContext(ctx, query, transaction.AccountID, transaction.Amount, string(transaction.Kind), transaction.IdempotencyKey).
		Scan(&transaction.ID, &transaction.PostedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Warn("Idempotency key already recorded")
			return ErrDuplicateIdempotencyKey
		}
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	transaction.PostedAt = transaction.PostedAt.UTC()
	return nil
}

// GetTransactionByIdempotencyKey returns sql.ErrNoRows when the key has not been used on the account.
func (r *TransactionRepository) GetTransactionByIdempotencyKey(ctx context.Context, tx *sql.Tx, accountID int64, key string) (*model.Transaction, error) {
	log := logger.Log.WithField("account_id", accountID)

	query := `SELECT id, account_id, amount, kind, posted_at, COALESCE(idempotency_key, '') FROM transactions WHERE account_id = $1 AND idempotency_key = $2`
	t, err := scanTransaction(tx.QueryRowContext(ctx, query, accountID, key))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get transaction by idempotency key query")
		}
		return nil, err
	}
	return t, nil
}

// GetTransactionsByAccountID retrieves the history of an account, oldest first.
func (r *TransactionRepository) GetTransactionsByAccountID(ctx context.Context, accountID int64) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get transactions by account ID")

	query := `
		SELECT id, account_id, amount, kind, posted_at, COALESCE(idempotency_key, '')
		FROM transactions
		WHERE account_id = $1
		ORDER BY posted_at, id`

	rows, err := r.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions by account ID")
		return nil, err
	}
	defer rows.Close()

	transactions := []*model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		log.WithError(err).Error("Failed to iterate transaction rows")
		return nil, err
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		t    model.Transaction
		kind string
	)
	if err := row.Scan(&t.ID, &t.AccountID, &t.Amount, &kind, &t.PostedAt, &t.IdempotencyKey); err != nil {
		return nil, err
	}
	t.Kind = model.TransactionKind(kind)
	t.PostedAt = t.PostedAt.UTC()
	return &t, nil
}
