package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID             int64           `json:"id"`
	OwnerID        string          `json:"owner_id"`
	DisplayName    string          `json:"display_name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AccountSummary is the per-account line of the balance summary.
type AccountSummary struct {
	DisplayName    string          `json:"display_name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// BalanceResponse is returned by the single-account balance endpoint.
type BalanceResponse struct {
	CurrentBalance decimal.Decimal `json:"current_balance"`
}
