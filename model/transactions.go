package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits an amount may carry.
const AmountScale = 2

type TransactionKind string

const (
	Deposit    TransactionKind = "Deposit"
	Withdrawal TransactionKind = "Withdrawal"
)

// Valid reports whether k is one of the supported kinds.
func (k TransactionKind) Valid() bool {
	return k == Deposit || k == Withdrawal
}

type Transaction struct {
	ID             int64           `json:"id"`
	AccountID      int64           `json:"account_id"`
	Amount         decimal.Decimal `json:"amount"`
	Kind           TransactionKind `json:"kind"`
	PostedAt       time.Time       `json:"posted_at"`
	IdempotencyKey string          `json:"-"`
}

// Apply returns the balance that results from posting t against balance.
func (t *Transaction) Apply(balance decimal.Decimal) decimal.Decimal {
	if t.Kind == Withdrawal {
		return balance.Sub(t.Amount)
	}
	return balance.Add(t.Amount)
}
