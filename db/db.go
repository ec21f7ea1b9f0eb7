// Package db manages the PostgreSQL connection pool and schema migrations.
package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/RainParade/rain-parade-backend/config"
	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a pgx connection pool from the database configuration.
// Production connections enforce TLS 1.2+.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	log := logger.GetLogger()

	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.IsProduction() {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Database.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	if cfg.Database.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLife != "" {
		if life, err := time.ParseDuration(cfg.Database.ConnMaxLife); err == nil {
			poolConfig.MaxConnLifetime = life
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Infow("Database pool established",
		"host", cfg.Database.Host,
		"database", cfg.Database.Name,
		"conn_string", logger.MaskConnectionString(connStr))

	return pool, nil
}
