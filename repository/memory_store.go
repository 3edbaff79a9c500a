// file: repository/memory_store.go

package repository

import (
	"bank-ledger-api/model"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errOutsideLockedAccount = errors.New("operation targets an account other than the locked one")
	errNegativeBalance      = errors.New("balance would become negative")
)

// MemoryStore is an in-process ILedgerStore. Account mutations are
// serialized by a fixed set of striped mutexes keyed by account id, and the
// writes of one unit of work are applied under mu in a single step.
type MemoryStore struct {
	mu      sync.RWMutex
	stripes []sync.Mutex

	nextAccountID     int64
	nextTransactionID int64
	accounts          map[int64]*model.Account
	accountOrder      []int64
	transactions      map[int64][]*model.Transaction

	now func() time.Time
}

// NewMemoryStore creates an empty store. stripes bounds how many accounts
// can be mutated in parallel; values below 1 are treated as 1.
func NewMemoryStore(stripes int) *MemoryStore {
	if stripes < 1 {
		stripes = 1
	}
	return &MemoryStore{
		stripes:      make([]sync.Mutex, stripes),
		accounts:     make(map[int64]*model.Account),
		transactions: make(map[int64][]*model.Transaction),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccountID++
	account.ID = s.nextAccountID
	account.CurrentBalance = decimal.Zero
	account.CreatedAt = s.now()

	stored := *account
	s.accounts[stored.ID] = &stored
	s.accountOrder = append(s.accountOrder, stored.ID)
	return nil
}

func (s *MemoryStore) GetAccountByID(ctx context.Context, accountID int64) (*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *acc
	return &cp, nil
}

func (s *MemoryStore) GetAccountsByOwnerID(ctx context.Context, ownerID string) ([]*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := []*model.Account{}
	for _, id := range s.accountOrder {
		acc := s.accounts[id]
		if acc.OwnerID != ownerID {
			continue
		}
		cp := *acc
		accounts = append(accounts, &cp)
	}
	return accounts, nil
}

func (s *MemoryStore) GetTransactionsByAccountID(ctx context.Context, accountID int64) ([]*model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.transactions[accountID]
	out := make([]*model.Transaction, 0, len(history))
	for _, t := range history {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) RunInAccountTx(ctx context.Context, accountID int64, fn func(tx ILedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.stripeFor(accountID)
	lock.Lock()
	defer lock.Unlock()

	tx := &memoryTx{store: s, accountID: accountID}
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *MemoryStore) stripeFor(accountID int64) *sync.Mutex {
	idx := accountID % int64(len(s.stripes))
	if idx < 0 {
		idx = -idx
	}
	return &s.stripes[idx]
}

func (s *MemoryStore) commit(tx *memoryTx) error {
	if !tx.dirty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[tx.accountID]
	if !ok {
		return fmt.Errorf("could not commit transaction: %w", sql.ErrNoRows)
	}
	if tx.balance != nil && tx.balance.IsNegative() {
		return fmt.Errorf("could not commit transaction: %w", errNegativeBalance)
	}

	if tx.balance != nil {
		acc.CurrentBalance = *tx.balance
	}

	postedAt := s.now()
	for _, t := range tx.appended {
		s.nextTransactionID++
		t.ID = s.nextTransactionID
		t.PostedAt = postedAt
		stored := *t
		s.transactions[tx.accountID] = append(s.transactions[tx.accountID], &stored)
	}

	if tx.deleted {
		delete(s.accounts, tx.accountID)
		for i, id := range s.accountOrder {
			if id == tx.accountID {
				s.accountOrder = append(s.accountOrder[:i], s.accountOrder[i+1:]...)
				break
			}
		}
	}
	return nil
}

// memoryTx buffers the writes of one RunInAccountTx call. It may only touch
// the account whose stripe is held.
type memoryTx struct {
	store     *MemoryStore
	accountID int64

	balance  *decimal.Decimal
	appended []*model.Transaction
	deleted  bool
}

func (t *memoryTx) dirty() bool {
	return t.balance != nil || len(t.appended) > 0 || t.deleted
}

func (t *memoryTx) check(accountID int64) error {
	if accountID != t.accountID {
		return errOutsideLockedAccount
	}
	if t.deleted {
		return sql.ErrNoRows
	}
	return nil
}

func (t *memoryTx) GetAccountForUpdate(ctx context.Context, accountID int64) (*model.Account, error) {
	if err := t.check(accountID); err != nil {
		return nil, err
	}
	acc, err := t.store.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if t.balance != nil {
		acc.CurrentBalance = *t.balance
	}
	return acc, nil
}

func (t *memoryTx) UpdateAccountBalance(_ context.Context, accountID int64, newBalance decimal.Decimal) error {
	if err := t.check(accountID); err != nil {
		return err
	}
	t.balance = &newBalance
	return nil
}

func (t *memoryTx) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	if err := t.check(transaction.AccountID); err != nil {
		return err
	}
	if transaction.IdempotencyKey != "" {
		if _, err := t.GetTransactionByIdempotencyKey(ctx, transaction.AccountID, transaction.IdempotencyKey); err == nil {
			return ErrDuplicateIdempotencyKey
		}
	}
	t.appended = append(t.appended, transaction)
	return nil
}

func (t *memoryTx) GetTransactionByIdempotencyKey(_ context.Context, accountID int64, key string) (*model.Transaction, error) {
	if err := t.check(accountID); err != nil {
		return nil, err
	}

	for _, pending := range t.appended {
		if pending.IdempotencyKey == key {
			cp := *pending
			return &cp, nil
		}
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	for _, stored := range t.store.transactions[accountID] {
		if stored.IdempotencyKey == key {
			cp := *stored
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (t *memoryTx) DeleteAccount(ctx context.Context, accountID int64) error {
	if err := t.check(accountID); err != nil {
		return err
	}
	if _, err := t.store.GetAccountByID(ctx, accountID); err != nil {
		return err
	}
	t.deleted = true
	return nil
}
