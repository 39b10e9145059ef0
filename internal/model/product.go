package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level below which a product counts as low stock.
const LowStockThreshold = 5

// Product represents a stocked item in the inventory.
type Product struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Category  string          `json:"category" db:"category"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Stock     int             `json:"stock" db:"stock"`
	Unit      string          `json:"unit" db:"unit"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// CreateProductRequest represents the request payload for adding a product.
type CreateProductRequest struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Unit     string          `json:"unit"`
}

// RestockRequest represents the request payload for adding stock to a product.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// ProductFilter narrows a product count. A nil field matches every product.
type ProductFilter struct {
	StockBelow *int
}
