// file: model/request.go

package model

import "github.com/shopspring/decimal"

// CreateAccountRequest defines the payload for opening a new account.
type CreateAccountRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// TransactionRequest defines the payload for posting a deposit or withdrawal.
// Amount is checked by the ledger itself; validator tags can not express
// comparisons on decimal values.
type TransactionRequest struct {
	AccountID      int64           `json:"account_id" validate:"required,gt=0"`
	Amount         decimal.Decimal `json:"amount"`
	Kind           TransactionKind `json:"kind" validate:"required,oneof=Deposit Withdrawal"`
	IdempotencyKey string          `json:"-"`
}
