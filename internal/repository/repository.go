package repository

import (
	"context"
	"time"

	"inventory-billing/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves every product ordered by name, then ID.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product. Returns model.ErrProductExists on an ID conflict.
	Create(ctx context.Context, product *model.Product) error

	// Delete removes a product. Returns model.ErrProductNotFound when absent.
	Delete(ctx context.Context, id string) error

	// Count returns the number of products matching filter.
	Count(ctx context.Context, filter model.ProductFilter) (int, error)

	// DecrementStock removes qty units from a product within the provided
	// transaction, failing without change if fewer than qty units remain.
	DecrementStock(ctx context.Context, tx pgx.Tx, id string, qty int) error

	// Restock adds qty units to a product and returns the updated product.
	Restock(ctx context.Context, id string, qty int) (*model.Product, error)
}

// BillRepository defines the interface for bill data access operations.
// Bills are append-only: there is no update or delete.
type BillRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Insert writes a bill header within the provided transaction.
	Insert(ctx context.Context, tx pgx.Tx, bill *model.Bill) error

	// InsertItems writes the line items of a bill within the provided transaction.
	InsertItems(ctx context.Context, tx pgx.Tx, billID uuid.UUID, items []model.BillItem) error

	// GetByID retrieves a bill with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Bill, error)

	// SumTotalsInRange sums bill totals created in [start, end).
	SumTotalsInRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}

// UserRepository defines the interface for user account data access operations.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrUserExists on a username conflict.
	Create(ctx context.Context, user *model.User) error

	// GetByUsername retrieves a user by username. Returns nil when absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// CountByRole returns the number of users holding role.
	CountByRole(ctx context.Context, role string) (int, error)
}
