// file: service/account_service.go

package service

import (
	"bank-ledger-api/logger"
	"bank-ledger-api/model"
	"bank-ledger-api/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// AccountService owns account creation, lookup and deletion. Every lookup
// is scoped to an owner: an account owned by someone else is reported as
// ErrAccountNotFound, exactly like one that does not exist.
type AccountService struct {
	store repository.ILedgerStore
	cache *AccountListCache
}

func NewAccountService(store repository.ILedgerStore, cache *AccountListCache) *AccountService {
	return &AccountService{
		store: store,
		cache: cache,
	}
}

// CreateAccount opens a zero-balance account for ownerID.
func (s *AccountService) CreateAccount(ctx context.Context, ownerID, displayName string) (*model.Account, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	account := &model.Account{
		OwnerID:     ownerID,
		DisplayName: displayName,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("could not create account: %w", err)
	}

	s.cache.Invalidate(ctx, ownerID)

	logger.Log.WithFields(logrus.Fields{
		"owner_id":   ownerID,
		"account_id": account.ID,
	}).Info("Account created")
	return account, nil
}

// ListAccounts lists the accounts of ownerID using a cache-aside strategy.
func (s *AccountService) ListAccounts(ctx context.Context, ownerID string) ([]*model.Account, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	cached, snap, ok := s.cache.Get(ctx, ownerID)
	if ok {
		return cached, nil
	}

	accounts, err := s.store.GetAccountsByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("could not list accounts: %w", err)
	}

	s.cache.Set(ctx, ownerID, snap, accounts)
	return accounts, nil
}

// GetAccount always reads from the store, never the cache.
func (s *AccountService) GetAccount(ctx context.Context, accountID int64, ownerID string) (*model.Account, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	account, err := s.store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("could not load account: %w", err)
	}
	if account.OwnerID != ownerID {
		logger.Log.WithFields(logrus.Fields{
			"requesting_owner_id": ownerID,
			"account_id":          accountID,
		}).Warn("Account lookup by non-owner")
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// DeleteAccount removes an account of ownerID whose balance is exactly zero.
// The account's transactions stay in the ledger.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID int64, ownerID string) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}

	log := logger.Log.WithFields(logrus.Fields{
		"owner_id":   ownerID,
		"account_id": accountID,
	})

	err := s.store.RunInAccountTx(ctx, accountID, func(tx repository.ILedgerTx) error {
		account, err := lockOwnedAccount(ctx, tx, accountID, ownerID)
		if err != nil {
			return err
		}
		if !account.CurrentBalance.IsZero() {
			return ErrBalanceNotZero
		}
		return tx.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		if IsDomainError(err) {
			log.WithError(err).Info("Account deletion rejected")
			return err
		}
		return fmt.Errorf("could not delete account: %w", err)
	}

	s.cache.Invalidate(ctx, ownerID)
	log.Info("Account deleted")
	return nil
}

// lockOwnedAccount loads accountID for update inside tx and applies the
// ownership policy.
func lockOwnedAccount(ctx context.Context, tx repository.ILedgerTx, accountID int64, ownerID string) (*model.Account, error) {
	account, err := tx.GetAccountForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
