package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-billing/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, category, price, stock, unit, created_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Unit, &p.CreatedAt)
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetAll retrieves every product ordered by name, then ID.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := collectProducts(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read product rows")
		return nil, err
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}

	products, err := collectProducts(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read product rows")
		return nil, err
	}

	return products, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Category,
		product.Price,
		product.Stock,
		product.Unit,
		product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Str("product_id", product.ID).Msg("product already exists")
			return model.ErrProductExists
		}
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", product.ID).Msg("product created")
	return nil
}

// Delete removes a product. Bills that reference it are unaffected.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewProductNotFoundError(id)
	}

	r.logger.Debug().Str("product_id", id).Msg("product deleted")
	return nil
}

// Count returns the number of products matching filter.
func (r *productRepository) Count(ctx context.Context, filter model.ProductFilter) (int, error) {
	query := `SELECT COUNT(*) FROM products`
	var args []any

	if filter.StockBelow != nil {
		query += ` WHERE stock < $1`
		args = append(args, *filter.StockBelow)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// DecrementStock removes qty units from a product within tx.
// The conditional update is evaluated under the row lock, so two transactions
// racing for the last units cannot both succeed.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id string, qty int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
		id, qty,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Int("quantity", qty).Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var name string
	var available int
	err = tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id = $1`, id).Scan(&name, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NewProductNotFoundError(id)
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to read product after rejected decrement")
		return fmt.Errorf("failed to read product stock: %w", err)
	}

	r.logger.Debug().
		Str("product_id", id).
		Int("available", available).
		Int("requested", qty).
		Msg("insufficient stock for decrement")

	return model.NewInsufficientStockError(id, name, available, qty)
}

// Restock adds qty units to a product and returns the updated product.
func (r *productRepository) Restock(ctx context.Context, id string, qty int) (*model.Product, error) {
	query := `UPDATE products SET stock = stock + $2 WHERE id = $1 RETURNING ` + productColumns

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id, qty), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewProductNotFoundError(id)
		}
		r.logger.Error().Err(err).Str("product_id", id).Int("quantity", qty).Msg("failed to restock product")
		return nil, fmt.Errorf("failed to restock product: %w", err)
	}

	r.logger.Debug().Str("product_id", id).Int("stock", p.Stock).Msg("product restocked")
	return &p, nil
}
