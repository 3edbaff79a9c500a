package service

import (
	"bank-ledger-api/logger"
	"bank-ledger-api/model"
	"bank-ledger-api/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TransactionService posts deposits and withdrawals. The balance update
// and the transaction record are written in one store unit of work.
type TransactionService struct {
	store    repository.ILedgerStore
	accounts *AccountService
	cache    *AccountListCache
}

func NewTransactionService(store repository.ILedgerStore, accounts *AccountService, cache *AccountListCache) *TransactionService {
	return &TransactionService{
		store:    store,
		accounts: accounts,
		cache:    cache,
	}
}

// ValidateAmount checks that amount is positive and fits the ledger scale.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(model.AmountScale)) {
		return ErrInvalidAmount
	}
	return nil
}

// ApplyTransaction posts req against one of ownerID's accounts.
//
// When req.IdempotencyKey is set and a transaction with that key already
// exists on the account, the stored transaction is returned and nothing is
// posted again. Reusing a key with a different amount or kind fails with
// ErrIdempotencyConflict.
func (s *TransactionService) ApplyTransaction(ctx context.Context, ownerID string, req model.TransactionRequest) (*model.Transaction, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	if !req.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if err := ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"owner_id":   ownerID,
		"account_id": req.AccountID,
		"amount":     req.Amount.String(),
		"kind":       req.Kind,
	})
	log.Info("Starting transaction posting")

	var (
		posted   *model.Transaction
		replayed bool
	)
	err := s.store.RunInAccountTx(ctx, req.AccountID, func(tx repository.ILedgerTx) error {
		account, err := lockOwnedAccount(ctx, tx, req.AccountID, ownerID)
		if err != nil {
			return err
		}

		if req.IdempotencyKey != "" {
			existing, err := tx.GetTransactionByIdempotencyKey(ctx, req.AccountID, req.IdempotencyKey)
			switch {
			case err == nil:
				if existing.Kind != req.Kind || !existing.Amount.Equal(req.Amount) {
					return ErrIdempotencyConflict
				}
				posted, replayed = existing, true
				return nil
			case !errors.Is(err, sql.ErrNoRows):
				return err
			}
		}

		if req.Kind == model.Withdrawal && account.CurrentBalance.LessThan(req.Amount) {
			return ErrInsufficientFunds
		}

		transaction := &model.Transaction{
			AccountID:      req.AccountID,
			Amount:         req.Amount,
			Kind:           req.Kind,
			IdempotencyKey: req.IdempotencyKey,
		}
		if err := tx.UpdateAccountBalance(ctx, req.AccountID, transaction.Apply(account.CurrentBalance)); err != nil {
			return fmt.Errorf("could not update account balance: %w", err)
		}
		if err := tx.CreateTransaction(ctx, transaction); err != nil {
			if errors.Is(err, repository.ErrDuplicateIdempotencyKey) {
				return ErrIdempotencyConflict
			}
			return fmt.Errorf("could not create transaction record: %w", err)
		}
		posted = transaction
		return nil
	})
	if err != nil {
		if IsDomainError(err) {
			log.WithError(err).Info("Transaction rejected")
			return nil, err
		}
		return nil, fmt.Errorf("could not apply transaction: %w", err)
	}

	if replayed {
		log.WithField("transaction_id", posted.ID).Info("Idempotent replay, returning recorded transaction")
		return posted, nil
	}

	s.cache.Invalidate(ctx, ownerID)
	log.WithField("transaction_id", posted.ID).Info("Transaction posted successfully")
	return posted, nil
}

// ListTransactions returns the history of one of ownerID's accounts, oldest first.
func (s *TransactionService) ListTransactions(ctx context.Context, accountID int64, ownerID string) ([]*model.Transaction, error) {
	if _, err := s.accounts.GetAccount(ctx, accountID, ownerID); err != nil {
		return nil, err
	}

	transactions, err := s.store.GetTransactionsByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("could not list transactions: %w", err)
	}
	return transactions, nil
}
