package handler

import (
	"bank-ledger-api/common"
	"bank-ledger-api/service"
	"errors"
	"net/http"
	"strconv"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// mapServiceError converts an error returned by a service into the response
// sent to the client. Anything that is not a ledger error becomes a 500
// carrying fallback as its message.
func mapServiceError(err error, fallback string) *common.AppError {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, service.ErrAccountNotFound):
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidKind),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrBalanceNotZero):
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrIdempotencyConflict):
		return common.NewAppError(http.StatusConflict, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

func accountIDFromPath(r *http.Request) (int64, *common.AppError) {
	accountID, err := strconv.ParseInt(r.PathValue("accountId"), 10, 64)
	if err != nil || accountID <= 0 {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}
	return accountID, nil
}
