package router

import (
	_ "bank-ledger-api/docs"
	"bank-ledger-api/handler"
	"bank-ledger-api/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Accounts     *handler.AccountHandler
	Transactions *handler.TransactionHandler
	Balances     *handler.BalanceHandler
	Health       *handler.HealthHandler
}

func NewRouter(h Handlers, verifier service.IdentityVerifier) http.Handler {
	mux := http.NewServeMux()
	protected := handler.AuthMiddleware(verifier)

	mux.HandleFunc("GET /health", h.Health.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /api/accounts", protected(handler.ErrorHandlingMiddleware(h.Accounts.CreateAccount)))
	mux.Handle("GET /api/accounts", protected(handler.ErrorHandlingMiddleware(h.Accounts.ListAccounts)))
	mux.Handle("DELETE /api/accounts/{accountId}", protected(handler.ErrorHandlingMiddleware(h.Accounts.DeleteAccount)))
	mux.Handle("GET /api/accounts/{accountId}/transactions", protected(handler.ErrorHandlingMiddleware(h.Transactions.ListTransactionsForAccount)))

	mux.Handle("POST /api/transactions", protected(handler.ErrorHandlingMiddleware(h.Transactions.CreateTransaction)))

	mux.Handle("GET /api/balance/summary", protected(handler.ErrorHandlingMiddleware(h.Balances.GetSummary)))
	mux.Handle("GET /api/balance/{accountId}", protected(handler.ErrorHandlingMiddleware(h.Balances.GetBalance)))

	return handler.RequestLogger(mux)
}
