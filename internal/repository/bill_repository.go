package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-billing/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// billRepository implements the BillRepository interface using PostgreSQL.
type billRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBillRepository creates a new PostgreSQL-backed bill repository.
func NewBillRepository(pool *pgxpool.Pool, logger zerolog.Logger) BillRepository {
	return &billRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "bill").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *billRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Insert writes a bill header within tx, assigning an ID and timestamp when absent.
func (r *billRepository) Insert(ctx context.Context, tx pgx.Tx, bill *model.Bill) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO bills (id, total, created_by, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.Exec(ctx, query, bill.ID, bill.Total, bill.CreatedBy, bill.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("bill_id", bill.ID.String()).
			Msg("failed to insert bill")
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	r.logger.Debug().
		Str("bill_id", bill.ID.String()).
		Msg("bill inserted")

	return nil
}

// InsertItems writes the line items of a bill within tx, preserving their order.
func (r *billRepository) InsertItems(ctx context.Context, tx pgx.Tx, billID uuid.UUID, items []model.BillItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO bill_items (bill_id, line_no, product_id, product_name, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, billID, i, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.LineTotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("bill_id", billID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to insert bill item")
			return fmt.Errorf("failed to insert bill item: %w", err)
		}
	}

	r.logger.Debug().
		Str("bill_id", billID.String()).
		Int("count", len(items)).
		Msg("bill items inserted")

	return nil
}

// GetByID retrieves a bill by its ID along with its items.
func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	billQuery := `
		SELECT id, total, created_by, created_at
		FROM bills
		WHERE id = $1
	`

	var bill model.Bill
	err := r.pool.QueryRow(ctx, billQuery, id).Scan(
		&bill.ID,
		&bill.Total,
		&bill.CreatedBy,
		&bill.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("bill_id", id.String()).Msg("bill not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("bill_id", id.String()).Msg("failed to query bill")
		return nil, fmt.Errorf("failed to query bill: %w", err)
	}

	itemsQuery := `
		SELECT product_id, product_name, quantity, unit_price, line_total
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY line_no
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("bill_id", id.String()).
			Msg("failed to query bill items")
		return nil, fmt.Errorf("failed to query bill items: %w", err)
	}
	defer rows.Close()

	bill.Items = []model.BillItem{}
	for rows.Next() {
		var item model.BillItem
		err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.LineTotal)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan bill item row")
			return nil, fmt.Errorf("failed to scan bill item: %w", err)
		}
		bill.Items = append(bill.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating bill item rows")
		return nil, fmt.Errorf("error iterating bill items: %w", err)
	}

	return &bill, nil
}

// SumTotalsInRange sums bill totals created in [start, end). Zero when there are none.
func (r *billRepository) SumTotalsInRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM bills
		WHERE created_at >= $1 AND created_at < $2
	`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, start, end).Scan(&sum); err != nil {
		r.logger.Error().
			Err(err).
			Time("start", start).
			Time("end", end).
			Msg("failed to sum bill totals")
		return decimal.Zero, fmt.Errorf("failed to sum bill totals: %w", err)
	}

	return sum, nil
}
