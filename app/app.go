// File: app/app.go
package app

import (
	"bank-ledger-api/config"
	"bank-ledger-api/db"
	"bank-ledger-api/handler"
	"bank-ledger-api/logger"
	"bank-ledger-api/repository"
	"bank-ledger-api/router"
	"bank-ledger-api/service"
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// App is a fully wired ledger API.
type App struct {
	Router http.Handler
	Store  repository.ILedgerStore
}

// Deps are the external resources an App is built from. DB and Cache are
// optional.
type Deps struct {
	Store    repository.ILedgerStore
	DB       *sql.DB
	Cache    service.ICacheClient
	CacheTTL time.Duration
	Verifier service.IdentityVerifier
}

// New wires services, handlers and the router on top of deps.
func New(deps Deps) *App {
	cache := service.NewAccountListCache(deps.Cache, deps.CacheTTL)

	accountService := service.NewAccountService(deps.Store, cache)
	transactionService := service.NewTransactionService(deps.Store, accountService, cache)
	balanceService := service.NewBalanceService(accountService)

	var pinger handler.Pinger
	if deps.DB != nil {
		pinger = deps.DB
	}

	r := router.NewRouter(router.Handlers{
		Accounts:     handler.NewAccountHandler(accountService),
		Transactions: handler.NewTransactionHandler(transactionService),
		Balances:     handler.NewBalanceHandler(balanceService),
		Health:       handler.NewHealthHandler(pinger),
	}, deps.Verifier)

	return &App{Router: r, Store: deps.Store}
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.SetLevel(config.AppConfig.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	deps := Deps{CacheTTL: config.AppConfig.Redis.TTL}

	switch config.AppConfig.Storage.Driver {
	case "memory":
		logger.Log.Warn("Using the in-memory ledger store; data is lost on restart")
		deps.Store = repository.NewMemoryStore(config.AppConfig.Storage.LockStripes)
	default:
		database, err := db.Connect(context.Background())
		if err != nil {
			logger.Log.Fatalf("Error connecting to the database: %v", err)
		}
		defer database.Close()

		if err := db.RunMigrations(database); err != nil {
			logger.Log.Fatalf("Error running database migrations: %v", err)
		}
		deps.DB = database
		deps.Store = repository.NewPostgresStore(database)
	}

	if config.AppConfig.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := db.ConnectRedis(ctx)
		cancel()
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, account lists will not be cached")
		} else {
			defer rdb.Close()
			deps.Cache = rdb
		}
	}

	verifier, err := service.NewJWTVerifier(
		config.AppConfig.JWT.SecretKey,
		config.AppConfig.JWT.Issuer,
		config.AppConfig.JWT.Audience,
	)
	if err != nil {
		logger.Log.Fatalf("Error configuring token verification: %v", err)
	}
	deps.Verifier = verifier

	application := New(deps)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      application.Router,
		ReadTimeout:  config.AppConfig.Server.ReadTimeout,
		WriteTimeout: config.AppConfig.Server.WriteTimeout,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
