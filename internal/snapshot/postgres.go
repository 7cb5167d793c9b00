package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresBackend stores snapshots in a single keyed table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pool, verifies it and makes sure the snapshots table exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createSnapshotsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

// Set implements Backend.
func (p *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO snapshots (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

// Get implements Backend.
func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM snapshots WHERE key = $1`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return []byte(value), nil
}

// Close implements Backend.
func (p *PostgresBackend) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
