package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// schema is idempotent and safe to apply on every start.
// bill_items.product_id has no foreign key: bills outlive the products they sold.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		unit TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name, id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_stock ON products(stock)`,
	`CREATE TABLE IF NOT EXISTS bills (
		id UUID PRIMARY KEY,
		total NUMERIC(14,2) NOT NULL CHECK (total >= 0),
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_created_at ON bills(created_at)`,
	`CREATE TABLE IF NOT EXISTS bill_items (
		bill_id UUID NOT NULL REFERENCES bills(id) ON DELETE RESTRICT,
		line_no INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
		line_total NUMERIC(14,2) NOT NULL CHECK (line_total >= 0),
		PRIMARY KEY (bill_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('staff', 'admin', 'super_admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables the service needs if they are missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logger.Error().Err(err).Int("statement", i).Msg("failed to apply schema")
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}

	logger.Info().Int("statements", len(schema)).Msg("database schema applied")
	return nil
}
