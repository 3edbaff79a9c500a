package db

import (
	"bank-ledger-api/config"
	"bank-ledger-api/logger"
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ConnString builds the lib/pq connection string from the loaded config.
func ConnString() string {
	cfg := config.AppConfig.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// configurePool applies the pool limits from the database config section.
// Zero values keep the database/sql defaults.
func configurePool(database *sql.DB) {
	cfg := config.AppConfig.Database
	if cfg.MaxOpenConns > 0 {
		database.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		database.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		database.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// Connect opens the ledger database and waits until it answers a ping.
func Connect(ctx context.Context) (*sql.DB, error) {
	cfg := config.AppConfig.Database
	log := logger.Log.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.Name,
		"sslmode":  cfg.SSLMode,
	})
	log.Info("Attempting to connect to the database")

	database, err := sql.Open("postgres", ConnString())
	if err != nil {
		log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	configurePool(database)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = database.PingContext(pingCtx); err != nil {
		log.WithError(err).Error("Failed to ping database")
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established successfully")
	return database, nil
}
