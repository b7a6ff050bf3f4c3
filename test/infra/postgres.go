package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"backoffice/db"
	"backoffice/migrations"
)

// Harness owns the lifecycle of the Postgres test container and pgx pool.
type Harness struct {
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	dsn       string
}

// NewHarness boots a Postgres 16 container and applies embedded migrations.
func NewHarness(ctx context.Context) (*Harness, error) {
	pgC, dsn, err := StartPostgres16(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	cfg.MaxConns = 64
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	h := &Harness{
		container: pgC.C,
		pool:      pool,
		dsn:       dsn,
	}

	if _, err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		h.Close(ctx)
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return h, nil
}

// Pool exposes the configured pgx pool.
func (h *Harness) Pool() *pgxpool.Pool {
	return h.pool
}

// DSN returns the connection string for direct connections (e.g., chaos).
func (h *Harness) DSN() string {
	return h.dsn
}

// Close tears down resources.
func (h *Harness) Close(ctx context.Context) {
	if h.pool != nil {
		h.pool.Close()
	}
	if h.container != nil {
		_ = h.container.Terminate(ctx)
	}
}

// Reset truncates mutable tables to provide a clean slate for next epoch.
func (h *Harness) Reset(ctx context.Context) error {
	tables := []string{
		"timeline_events",
		"records",
		"users",
	}

	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reset begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, tbl := range tables {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+tbl+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", tbl, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reset commit: %w", err)
	}

	return nil
}
