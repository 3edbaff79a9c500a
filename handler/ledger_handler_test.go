package handler

import (
	"bank-ledger-api/model"
	"bank-ledger-api/repository"
	"bank-ledger-api/service"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

// newTestMux wires the handlers the same way the router does, on top of an
// in-memory ledger.
func newTestMux(t *testing.T) http.Handler {
	t.Helper()

	store := repository.NewMemoryStore(8)
	accountService := service.NewAccountService(store, nil)
	transactionService := service.NewTransactionService(store, accountService, nil)
	balanceService := service.NewBalanceService(accountService)

	verifier, err := service.NewJWTVerifier(testSecret, "", "")
	require.NoError(t, err)
	protected := AuthMiddleware(verifier)

	accounts := NewAccountHandler(accountService)
	transactions := NewTransactionHandler(transactionService)
	balances := NewBalanceHandler(balanceService)

	mux := http.NewServeMux()
	mux.Handle("POST /api/accounts", protected(ErrorHandlingMiddleware(accounts.CreateAccount)))
	mux.Handle("GET /api/accounts", protected(ErrorHandlingMiddleware(accounts.ListAccounts)))
	mux.Handle("DELETE /api/accounts/{accountId}", protected(ErrorHandlingMiddleware(accounts.DeleteAccount)))
	mux.Handle("GET /api/accounts/{accountId}/transactions", protected(ErrorHandlingMiddleware(transactions.ListTransactionsForAccount)))
	mux.Handle("POST /api/transactions", protected(ErrorHandlingMiddleware(transactions.CreateTransaction)))
	mux.Handle("GET /api/balance/summary", protected(ErrorHandlingMiddleware(balances.GetSummary)))
	mux.Handle("GET /api/balance/{accountId}", protected(ErrorHandlingMiddleware(balances.GetBalance)))
	return mux
}

func tokenFor(t *testing.T, ownerID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   ownerID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, h http.Handler, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func openAccount(t *testing.T, h http.Handler, token, name string) model.Account {
	t.Helper()
	rr := do(t, h, "POST", "/api/accounts", token, fmt.Sprintf(`{"display_name":%q}`, name))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var acc model.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &acc))
	return acc
}

func postTransaction(t *testing.T, h http.Handler, token string, accountID int64, amount, kind string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"account_id":%d,"amount":%q,"kind":%q}`, accountID, amount, kind)
	return do(t, h, "POST", "/api/transactions", token, body, headers...)
}

func balanceOf(t *testing.T, h http.Handler, token string, accountID int64) decimal.Decimal {
	t.Helper()
	rr := do(t, h, "GET", fmt.Sprintf("/api/balance/%d", accountID), token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp model.BalanceResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.CurrentBalance
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestMux(t)

	t.Run("missing header", func(t *testing.T) {
		rr := do(t, h, "GET", "/api/accounts", "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rr := do(t, h, "GET", "/api/accounts", "", "", "Authorization", "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString([]byte("another-secret"))
		require.NoError(t, err)

		rr := do(t, h, "GET", "/api/accounts", signed, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid or expired token")
	})
}

func TestAccountHandler(t *testing.T) {
	h := newTestMux(t)
	alice := tokenFor(t, "alice")

	t.Run("create and list", func(t *testing.T) {
		acc := openAccount(t, h, alice, "Checking")
		assert.Equal(t, "alice", acc.OwnerID)
		assert.True(t, acc.CurrentBalance.IsZero())

		rr := do(t, h, "GET", "/api/accounts", alice, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var accounts []model.Account
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accounts))
		require.Len(t, accounts, 1)
		assert.Equal(t, acc.ID, accounts[0].ID)
	})

	t.Run("invalid body", func(t *testing.T) {
		rr := do(t, h, "POST", "/api/accounts", alice, `{"display_name":""}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = do(t, h, "POST", "/api/accounts", alice, `not json`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("delete requires zero balance", func(t *testing.T) {
		acc := openAccount(t, h, alice, "Temp")
		require.Equal(t, http.StatusCreated, postTransaction(t, h, alice, acc.ID, "10", "Deposit").Code)

		rr := do(t, h, "DELETE", fmt.Sprintf("/api/accounts/%d", acc.ID), alice, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		require.Equal(t, http.StatusCreated, postTransaction(t, h, alice, acc.ID, "10", "Withdrawal").Code)
		rr = do(t, h, "DELETE", fmt.Sprintf("/api/accounts/%d", acc.ID), alice, "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"Account deleted successfully"}`, rr.Body.String())

		rr = do(t, h, "GET", fmt.Sprintf("/api/balance/%d", acc.ID), alice, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid account id", func(t *testing.T) {
		rr := do(t, h, "DELETE", "/api/accounts/abc", alice, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTransactionHandler(t *testing.T) {
	h := newTestMux(t)
	alice := tokenFor(t, "alice")
	acc := openAccount(t, h, alice, "Checking")

	t.Run("deposit then withdraw", func(t *testing.T) {
		rr := postTransaction(t, h, alice, acc.ID, "500", "Deposit")
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var txn model.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &txn))
		assert.Equal(t, model.Deposit, txn.Kind)
		assert.NotZero(t, txn.ID)

		rr = postTransaction(t, h, alice, acc.ID, "200", "Withdrawal")
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.True(t, balanceOf(t, h, alice, acc.ID).Equal(decimal.NewFromInt(300)))
	})

	t.Run("insufficient funds leaves balance unchanged", func(t *testing.T) {
		rr := postTransaction(t, h, alice, acc.ID, "400", "Withdrawal")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "insufficient funds")
		assert.True(t, balanceOf(t, h, alice, acc.ID).Equal(decimal.NewFromInt(300)))
	})

	t.Run("invalid amount and kind", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, postTransaction(t, h, alice, acc.ID, "-5", "Deposit").Code)
		assert.Equal(t, http.StatusBadRequest, postTransaction(t, h, alice, acc.ID, "0", "Deposit").Code)
		assert.Equal(t, http.StatusBadRequest, postTransaction(t, h, alice, acc.ID, "1.001", "Deposit").Code)
		assert.Equal(t, http.StatusBadRequest, postTransaction(t, h, alice, acc.ID, "5", "Refund").Code)
	})

	t.Run("history", func(t *testing.T) {
		rr := do(t, h, "GET", fmt.Sprintf("/api/accounts/%d/transactions", acc.ID), alice, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var history []model.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
		require.Len(t, history, 2)
		assert.Equal(t, model.Deposit, history[0].Kind)
		assert.Equal(t, model.Withdrawal, history[1].Kind)
	})

	t.Run("idempotent retry", func(t *testing.T) {
		first := postTransaction(t, h, alice, acc.ID, "25", "Deposit", IdempotencyKeyHeader, "retry-1")
		second := postTransaction(t, h, alice, acc.ID, "25", "Deposit", IdempotencyKeyHeader, "retry-1")
		require.Equal(t, http.StatusCreated, first.Code)
		require.Equal(t, http.StatusCreated, second.Code)

		var a, b model.Transaction
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
		assert.Equal(t, a.ID, b.ID)
		assert.True(t, balanceOf(t, h, alice, acc.ID).Equal(decimal.NewFromInt(325)))

		conflict := postTransaction(t, h, alice, acc.ID, "30", "Deposit", IdempotencyKeyHeader, "retry-1")
		assert.Equal(t, http.StatusConflict, conflict.Code)
	})

	t.Run("idempotency key too long", func(t *testing.T) {
		rr := postTransaction(t, h, alice, acc.ID, "1", "Deposit", IdempotencyKeyHeader, strings.Repeat("k", maxIdempotencyKeyLen+1))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestOwnershipIsHidden(t *testing.T) {
	h := newTestMux(t)
	alice := tokenFor(t, "alice")
	bob := tokenFor(t, "bob")
	acc := openAccount(t, h, alice, "Private")
	require.Equal(t, http.StatusCreated, postTransaction(t, h, alice, acc.ID, "50", "Deposit").Code)

	missing := do(t, h, "GET", "/api/balance/9999", bob, "")
	foreign := do(t, h, "GET", fmt.Sprintf("/api/balance/%d", acc.ID), bob, "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.JSONEq(t, missing.Body.String(), foreign.Body.String())

	assert.Equal(t, http.StatusNotFound, postTransaction(t, h, bob, acc.ID, "10", "Withdrawal").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "DELETE", fmt.Sprintf("/api/accounts/%d", acc.ID), bob, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", fmt.Sprintf("/api/accounts/%d/transactions", acc.ID), bob, "").Code)
	assert.True(t, balanceOf(t, h, alice, acc.ID).Equal(decimal.NewFromInt(50)))
}

func TestBalanceHandler_GetSummary(t *testing.T) {
	h := newTestMux(t)
	alice := tokenFor(t, "alice")

	rr := do(t, h, "GET", "/api/balance/summary", alice, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	checking := openAccount(t, h, alice, "Checking")
	openAccount(t, h, alice, "Savings")
	require.Equal(t, http.StatusCreated, postTransaction(t, h, alice, checking.ID, "120.50", "Deposit").Code)

	rr = do(t, h, "GET", "/api/balance/summary", alice, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var summary []model.AccountSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	require.Len(t, summary, 2)
	assert.Equal(t, "Checking", summary[0].DisplayName)
	assert.True(t, summary[0].CurrentBalance.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, "Savings", summary[1].DisplayName)
	assert.True(t, summary[1].CurrentBalance.IsZero())
}
