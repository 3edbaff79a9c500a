package repository

import (
	"bank-ledger-api/logger"
	"bank-ledger-api/model"
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// CreateAccount adds a new account to the database.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id":     account.OwnerID,
		"display_name": account.DisplayName,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (owner_id, display_name) VALUES ($1, $2) RETURNING id, current_balance, created_at`
	err := r.DB.QueryRowContext(ctx, query, account.OwnerID, account.DisplayName).Scan(&account.ID, &account.CurrentBalance, &account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	account.CreatedAt = account.CreatedAt.UTC()
	return nil
}

// GetAccountByID retrieves a single account. It returns sql.ErrNoRows if the account does not exist.
func (r *AccountRepository) GetAccountByID(ctx context.Context, accountID int64) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get account by ID")

	query := `SELECT id, owner_id, display_name, current_balance, created_at FROM accounts WHERE id = $1`
	account, err := scanAccount(r.DB.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get account by ID query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByOwnerID retrieves all accounts for a specific owner.
func (r *AccountRepository) GetAccountsByOwnerID(ctx context.Context, ownerID string) ([]*model.Account, error) {
	log := logger.Log.WithField("owner_id", ownerID)
	log.Info("Executing query to get accounts by owner ID")

	query := `SELECT id, owner_id, display_name, current_balance, created_at FROM accounts WHERE owner_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for accounts by owner ID")
		return nil, err
	}
	defer rows.Close()

	accounts := []*model.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		log.WithError(err).Error("Failed to iterate account rows")
		return nil, err
	}
	return accounts, nil
}

// GetAccountForUpdate reads the account and locks its row until tx ends.
func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, tx *sql.Tx, accountID int64) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Debug("Executing query to get account for update")

	query := `SELECT id, owner_id, display_name, current_balance, created_at FROM accounts WHERE id = $1 FOR UPDATE`
	account, err := scanAccount(tx.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, tx *sql.Tx, accountID int64, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"new_balance": newBalance.String(),
	})
	log.Debug("Executing query to update account balance")

	query := `UPDATE accounts SET current_balance = $1 WHERE id = $2`
	_, err := tx.ExecContext(ctx, query, newBalance, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}

// DeleteAccount removes the account row. Its transactions are kept.
func (r *AccountRepository) DeleteAccount(ctx context.Context, tx *sql.Tx, accountID int64) error {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to delete account")

	query := `DELETE FROM accounts WHERE id = $1`
	res, err := tx.ExecContext(ctx, query, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete account query")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var acc model.Account
	if err := row.Scan(&acc.ID, &acc.OwnerID, &acc.DisplayName, &acc.CurrentBalance, &acc.CreatedAt); err != nil {
		return nil, err
	}
	acc.CreatedAt = acc.CreatedAt.UTC()
	return &acc, nil
}
