package database

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlscribe/sqlscribe/pkg/config"
)

// BuildPostgresURL builds a PostgreSQL connection URL with proper escaping.
// User-provided fields are URL-escaped so passwords containing @, /, # or ?
// do not break URL parsing.
func BuildPostgresURL(cfg *config.DatasourceConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		url.QueryEscape(cfg.Database),
		sslMode,
	)
}

// NewPostgresPool creates a bounded pgx connection pool for the target
// database. Pool exhaustion surfaces as an acquire timeout rather than an
// indefinite block; connections are recycled after the configured lifetime.
func NewPostgresPool(ctx context.Context, cfg *config.DatasourceConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildPostgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 10
	}
	poolConfig.MinConns = cfg.MinConnections
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime()
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
