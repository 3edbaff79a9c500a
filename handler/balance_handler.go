package handler

import (
	"bank-ledger-api/common"
	"bank-ledger-api/model"
	"bank-ledger-api/service"
	"net/http"
)

type BalanceHandler struct {
	service *service.BalanceService
}

func NewBalanceHandler(s *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{service: s}
}

// GetBalance godoc
// @Summary      Get account balance
// @Tags         balance
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "The ID of the account"
// @Success      200  {object}  model.BalanceResponse
// @Failure      400  {object}  common.AppError "Invalid account ID in URL path"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/balance/{accountId} [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) *common.AppError {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		return appErr
	}
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	balance, err := h.service.GetBalance(r.Context(), accountID, ownerID)
	if err != nil {
		return mapServiceError(err, "Could not retrieve balance")
	}

	common.WriteJSON(w, http.StatusOK, model.BalanceResponse{CurrentBalance: balance})
	return nil
}

// GetSummary godoc
// @Summary      Summarize balances
// @Description  Lists the display name and balance of every account owned by the authenticated user.
// @Tags         balance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.AccountSummary
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/balance/summary [get]
func (h *BalanceHandler) GetSummary(w http.ResponseWriter, r *http.Request) *common.AppError {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		return appErr
	}

	summary, err := h.service.GetSummary(r.Context(), ownerID)
	if err != nil {
		return mapServiceError(err, "Could not retrieve balance summary")
	}

	common.WriteJSON(w, http.StatusOK, summary)
	return nil
}
