package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs a statement. *pgxpool.Pool and pgx.Tx satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS security_snapshots (
		snapshot_id  UUID PRIMARY KEY,
		polled_at    TIMESTAMPTZ NOT NULL,
		case_name    TEXT NOT NULL,
		period       INTEGER NOT NULL,
		tick         INTEGER NOT NULL,
		ticker       TEXT NOT NULL,
		last         DOUBLE PRECISION,
		bid          DOUBLE PRECISION,
		ask          DOUBLE PRECISION,
		position     DOUBLE PRECISION,
		volume       DOUBLE PRECISION,
		bid_levels   JSONB NOT NULL,
		ask_levels   JSONB NOT NULL,
		UNIQUE (ticker, period, tick)
	)`,
	`CREATE INDEX IF NOT EXISTS security_snapshots_ticker_polled_at
		ON security_snapshots (ticker, polled_at DESC)`,
	`CREATE TABLE IF NOT EXISTS time_and_sales (
		ticker    TEXT NOT NULL,
		print_id  BIGINT NOT NULL,
		period    INTEGER NOT NULL,
		tick      INTEGER NOT NULL,
		price     DOUBLE PRECISION NOT NULL,
		quantity  DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (ticker, print_id)
	)`,
}

// EnsureSchema creates the recorder tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
