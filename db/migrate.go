// file: db/migrate.go

package db

import (
	"bank-ledger-api/config"
	"bank-ledger-api/logger"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending migration from the configured path.
func RunMigrations(database *sql.DB) error {
	path := config.AppConfig.Database.MigrationsPath
	log := logger.Log.WithField("migrations_path", path)

	driver, err := postgres.WithInstance(database, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("cannot create migrate driver: %w", err)
	}

	mig, err := migrate.NewWithDatabaseInstance(path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}

	if err := mig.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrate up: %w", err)
	}

	log.Info("Database migrations applied")
	return nil
}
