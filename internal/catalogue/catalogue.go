// Package catalogue loads product catalogue files and imports them into the store.
package catalogue

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"inventory-billing/internal/model"
	"inventory-billing/internal/service"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a catalogue CSV (gzipped when the path ends in .gz) and
	// returns the validated products it describes.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// Record is one row of a catalogue file.
type Record struct {
	ID       string `csv:"id"`
	Name     string `csv:"name"`
	Category string `csv:"category"`
	Price    string `csv:"price"`
	Stock    int    `csv:"stock"`
	Unit     string `csv:"unit"`
}

// NewRecord converts a product into a catalogue row.
func NewRecord(p model.Product) Record {
	return Record{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.StringFixed(2),
		Stock:    p.Stock,
		Unit:     p.Unit,
	}
}

// Write encodes products as a catalogue CSV to w.
func Write(w io.Writer, products []model.Product) error {
	records := make([]Record, len(products))
	for i, p := range products {
		records[i] = NewRecord(p)
	}
	return gocsv.Marshal(records, w)
}

// decode parses a catalogue stream. Rows are numbered from 2 in errors to
// match the line in the file after the header.
func decode(ctx context.Context, r io.Reader, gzipped bool) ([]model.Product, error) {
	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	var records []Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	products := make([]model.Product, 0, len(records))
	for i, rec := range records {
		if i%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		p, err := rec.toProduct()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		products = append(products, *p)
	}

	return products, nil
}

func (r Record) toProduct() (*model.Product, error) {
	if strings.TrimSpace(r.ID) == "" {
		return nil, model.NewValidationError("id is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("invalid price %q", r.Price))
	}

	return service.NewProduct(&model.CreateProductRequest{
		ID:       r.ID,
		Name:     r.Name,
		Category: r.Category,
		Price:    price,
		Stock:    r.Stock,
		Unit:     r.Unit,
	})
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
