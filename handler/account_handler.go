package handler

import (
	"bank-ledger-api/common"
	"bank-ledger-api/logger"
	"bank-ledger-api/model"
	"bank-ledger-api/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateAccount godoc
// @Summary      Open a new account
// @Description  Creates a zero-balance account owned by the authenticated user.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account body model.CreateAccountRequest true "Display name of the new account"
// @Success      201  {object}  model.Account
// @Failure      400  {object}  common.AppError "Invalid request body"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error while creating the account"
// @Router       /api/accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateAccountRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		return appErr
	}

	logger.Log.WithFields(logrus.Fields{
		"owner_id":     ownerID,
		"display_name": req.DisplayName,
	}).Info("Create account request received")

	account, err := h.service.CreateAccount(r.Context(), ownerID, req.DisplayName)
	if err != nil {
		return mapServiceError(err, "Could not create account")
	}

	common.WriteJSON(w, http.StatusCreated, account)
	return nil
}

// ListAccounts godoc
// @Summary      List accounts
// @Description  Lists every account owned by the authenticated user.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Account
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error while retrieving accounts"
// @Router       /api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		return appErr
	}

	logger.Log.WithField("owner_id", ownerID).Info("List accounts request received")

	accounts, err := h.service.ListAccounts(r.Context(), ownerID)
	if err != nil {
		return mapServiceError(err, "Could not retrieve accounts")
	}

	common.WriteJSON(w, http.StatusOK, accounts)
	return nil
}

// DeleteAccount godoc
// @Summary      Delete an account
// @Description  Deletes an account of the authenticated user. The balance must be exactly zero.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "The ID of the account to delete"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Invalid account ID or non-zero balance"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      500  {object}  common.AppError "Internal server error while deleting the account"
// @Router       /api/accounts/{accountId} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		return appErr
	}
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.DeleteAccount(r.Context(), accountID, ownerID); err != nil {
		return mapServiceError(err, "Could not delete account")
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
	return nil
}
