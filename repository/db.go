// Package repository provides data access for all domain entities. Every
// multi-table mutation runs inside a single pgx transaction, and every
// junction table is protected by a compound unique index so that concurrent
// writers cannot slip duplicate links past the application-level checks.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewbase/backend/pkg/config"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
	poolErr  error
)

// Init initializes the database connection pool.
// Safe to call multiple times - only initializes once.
func Init(cfg *config.Config) error {
	poolOnce.Do(func() {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			poolErr = fmt.Errorf("failed to parse db config: %w", err)
			return
		}

		maxConns := cfg.Database.MaxOpenConns
		if maxConns <= 0 {
			maxConns = 25
		}
		minConns := cfg.Database.MaxIdleConns
		if minConns <= 0 {
			minConns = 5
		}
		poolConfig.MaxConns = int32(maxConns)
		poolConfig.MinConns = int32(minConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxLifetime

		pool, poolErr = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if poolErr != nil {
			poolErr = fmt.Errorf("failed to connect to db: %w", poolErr)
			return
		}

		if err := pool.Ping(context.Background()); err != nil {
			poolErr = fmt.Errorf("failed to ping db: %w", err)
		}
	})

	return poolErr
}

// Close closes the database connection pool.
// Should be called during graceful shutdown.
func Close() {
	if pool != nil {
		pool.Close()
	}
}

// Ping checks database connectivity for health reporting.
func Ping(ctx context.Context) error {
	return getPool().Ping(ctx)
}

// getPool returns the database pool, panics if not initialized.
func getPool() *pgxpool.Pool {
	if pool == nil {
		panic("repository not initialized - call repository.Init() first")
	}
	return pool
}

// isUniqueViolation reports whether err is a unique-index violation
// (SQLSTATE 23505). The unique indexes on the junction tables are the actual
// race-safety mechanism; application-level existence checks only produce the
// friendlier error message in the common case.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
