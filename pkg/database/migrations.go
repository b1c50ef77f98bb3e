package database

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// RunMigrations applies pending schema migrations from migrationsPath.
// Safe to run on every startup; an up-to-date schema is a no-op.
func RunMigrations(db *sql.DB, migrationsPath string, logger *zap.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Failed to close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("Failed to close migration database", zap.Error(dbErr))
		}
	}()

	switch err := m.Up(); err {
	case nil:
		version, dirty, _ := m.Version()
		logger.Info("Schema migrations applied",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
		return nil
	case migrate.ErrNoChange:
		logger.Info("Schema up-to-date, no migrations to apply")
		return nil
	default:
		return fmt.Errorf("failed to run migrations: %w", err)
	}
}
