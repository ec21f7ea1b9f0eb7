package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies all pending database migrations using golang-migrate.
// It reads migration files embedded in the binary, connects to the database,
// and applies any migrations that haven't been run yet, in numeric order.
// Safe to call on every startup: already-applied migrations are skipped.
func RunMigrations(dbURL string) error {
	log := logger.GetLogger()

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	// golang-migrate's pgx v5 driver expects the pgx5:// scheme.
	m, err := migrate.NewWithSourceInstance("iofs", source, convertToPgx5URL(dbURL))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty migration state at version %d", version)
	}

	log.Infow("Database migrations applied", "version", version)
	return nil
}

// convertToPgx5URL rewrites a postgres:// URL to the pgx5:// scheme used by
// golang-migrate's pgx v5 driver.
func convertToPgx5URL(dbURL string) string {
	if strings.HasPrefix(dbURL, "postgres://") {
		return "pgx5://" + strings.TrimPrefix(dbURL, "postgres://")
	}
	if strings.HasPrefix(dbURL, "postgresql://") {
		return "pgx5://" + strings.TrimPrefix(dbURL, "postgresql://")
	}
	return dbURL
}
