package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill is the immutable record of a completed sale.
// Items reference products by ID only and carry the price captured at sale
// time, so a bill stays readable after its products are deleted.
type Bill struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Items     []BillItem      `json:"items"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	CreatedBy string          `json:"createdBy" db:"created_by"`
}

// BillItem represents a line item of a bill.
type BillItem struct {
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	LineTotal   decimal.Decimal `json:"lineTotal" db:"line_total"`
}

// SaleRequest represents the request payload for submitting a sale.
type SaleRequest struct {
	Items []SaleLine `json:"items"`
}

// SaleLine is a single product/quantity pair of a sale request.
type SaleLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// SaleResponse represents the response payload for a completed sale.
type SaleResponse struct {
	BillID uuid.UUID       `json:"billId"`
	Total  decimal.Decimal `json:"total"`
}

// DashboardSummary holds the aggregated dashboard metrics.
type DashboardSummary struct {
	TotalProducts int             `json:"totalProducts"`
	LowStockCount int             `json:"lowStockCount"`
	TodaySales    decimal.Decimal `json:"todaySales"`
}
