package service

import (
	"context"

	"inventory-billing/internal/access"
	"inventory-billing/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll lists every product ordered by name.
	GetAll(ctx context.Context, actor *access.Actor) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, actor *access.Actor, id string) (*model.Product, error)

	// Create adds a product to the catalogue.
	Create(ctx context.Context, actor *access.Actor, req *model.CreateProductRequest) (*model.Product, error)

	// Delete removes a product. Existing bills are unaffected.
	Delete(ctx context.Context, actor *access.Actor, id string) error

	// Restock adds units to a product's stock.
	Restock(ctx context.Context, actor *access.Actor, id string, qty int) (*model.Product, error)
}

// BillingService validates and records sales.
type BillingService interface {
	// SubmitSale applies a multi-line sale atomically and returns the recorded bill.
	SubmitSale(ctx context.Context, actor *access.Actor, lines []model.SaleLine) (*model.Bill, error)

	// GetBill retrieves a recorded bill.
	GetBill(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Bill, error)
}

// DashboardService aggregates store-wide figures.
type DashboardService interface {
	// Summary returns product counts and today's sales.
	Summary(ctx context.Context, actor *access.Actor) (*model.DashboardSummary, error)
}

// SaleRecorder receives sale outcomes for instrumentation.
type SaleRecorder interface {
	RecordSale(total decimal.Decimal)
	RecordSaleRejection(kind string)
}
