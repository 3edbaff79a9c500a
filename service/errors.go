// file: service/errors.go

package service

import "errors"

// Domain errors. Handlers map each of them to a client-facing status; any
// other error returned by a service is an internal failure.
var (
	ErrUnauthenticated     = errors.New("missing authenticated owner")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero with at most 2 decimal places")
	ErrInvalidKind         = errors.New("transaction kind must be Deposit or Withdrawal")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrBalanceNotZero      = errors.New("account balance must be zero to delete it")
	ErrIdempotencyConflict = errors.New("idempotency key was already used for a different transaction")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

var domainErrors = []error{
	ErrUnauthenticated,
	ErrAccountNotFound,
	ErrInvalidAmount,
	ErrInvalidKind,
	ErrInsufficientFunds,
	ErrBalanceNotZero,
	ErrIdempotencyConflict,
}

// IsDomainError reports whether err is one of the expected, caller-correctable ledger errors.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
