package handler

import (
	"bank-ledger-api/common"
	"bank-ledger-api/model"
	"bank-ledger-api/service"
	"net/http"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	maxIdempotencyKeyLen = 128
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	service *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// CreateTransaction godoc
// @Summary      Post a deposit or withdrawal
// @Description  Applies a deposit or withdrawal to an account owned by the authenticated user. Sending the same Idempotency-Key again returns the recorded transaction instead of posting twice.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Client-chosen key that makes the request safe to retry"
// @Param        transaction body model.TransactionRequest true "Account, amount and kind of the transaction"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Bad Request (e.g., insufficient funds, invalid amount or kind)"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      409  {object}  common.AppError "Idempotency key reused with a different payload"
// @Failure      500  {object}  common.AppError "Internal server error while posting the transaction"
// @Router       /api/transactions [post]
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransactionRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		return appErr
	}

	req.IdempotencyKey = r.Header.Get(IdempotencyKeyHeader)
	if len(req.IdempotencyKey) > maxIdempotencyKeyLen {
		return common.NewAppError(http.StatusBadRequest, "Idempotency-Key header is too long", nil)
	}

	transaction, err := h.service.ApplyTransaction(r.Context(), ownerID, req)
	if err != nil {
		return mapServiceError(err, "Could not process transaction")
	}

	common.WriteJSON(w, http.StatusCreated, transaction)
	return nil
}

// ListTransactionsForAccount godoc
// @Summary      List account transaction history
// @Description  Retrieves the transaction history, oldest first, for an account owned by the authenticated user.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "The ID of the account to retrieve transactions for"
// @Success      200  {array}   model.Transaction "A list of transactions for the account"
// @Failure      400  {object}  common.AppError "Invalid account ID in URL path"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "Account with the specified ID not found"
// @Failure      500  {object}  common.AppError "Internal server error while retrieving transactions"
// @Router       /api/accounts/{accountId}/transactions [get]
func (h *TransactionHandler) ListTransactionsForAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		return appErr
	}
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	transactions, err := h.service.ListTransactions(r.Context(), accountID, ownerID)
	if err != nil {
		return mapServiceError(err, "Could not retrieve transactions")
	}

	common.WriteJSON(w, http.StatusOK, transactions)
	return nil
}
