package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"inventory-billing/internal/catalogue"
	"inventory-billing/internal/model"

	"github.com/shopspring/decimal"
)

// catalogue-gen writes a sample gzipped catalogue for seeding a development store.
// Several products start below the low-stock threshold so the dashboard has something to show.
func main() {
	out := flag.String("out", "data/catalogue/sample.csv.gz", "output file")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []model.Product{
		{ID: "rice-basmati-5kg", Name: "Basmati Rice 5kg", Category: "Grocery", Price: decimal.RequireFromString("12.50"), Stock: 40, Unit: "bag"},
		{ID: "flour-wheat-1kg", Name: "Wheat Flour 1kg", Category: "Grocery", Price: decimal.RequireFromString("1.80"), Stock: 60, Unit: "bag"},
		{ID: "sugar-1kg", Name: "Sugar 1kg", Category: "Grocery", Price: decimal.RequireFromString("1.20"), Stock: 3, Unit: "bag"},
		{ID: "milk-whole-1l", Name: "Whole Milk 1L", Category: "Dairy", Price: decimal.RequireFromString("1.10"), Stock: 24, Unit: "carton"},
		{ID: "butter-250g", Name: "Butter 250g", Category: "Dairy", Price: decimal.RequireFromString("2.75"), Stock: 0, Unit: "pack"},
		{ID: "eggs-12", Name: "Eggs (12)", Category: "Dairy", Price: decimal.RequireFromString("3.40"), Stock: 18, Unit: "tray"},
		{ID: "soap-bar", Name: "Soap Bar", Category: "Personal Care", Price: decimal.RequireFromString("0.95"), Stock: 4, Unit: "bar"},
		{ID: "toothpaste-100ml", Name: "Toothpaste 100ml", Category: "Personal Care", Price: decimal.RequireFromString("2.10"), Stock: 30, Unit: "tube"},
		{ID: "tea-green-25", Name: "Green Tea (25 bags)", Category: "Beverages", Price: decimal.RequireFromString("4.50"), Stock: 12, Unit: "box"},
		{ID: "coffee-ground-250g", Name: "Ground Coffee 250g", Category: "Beverages", Price: decimal.RequireFromString("6.99"), Stock: 9, Unit: "pack"},
	}

	if err := writeCatalogue(*out, products); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d products\n", *out, len(products))
	fmt.Println("\nLow stock (below 5):")
	for _, p := range products {
		if p.Stock < model.LowStockThreshold {
			fmt.Printf("  - %-20s stock %d\n", p.ID, p.Stock)
		}
	}
}

func writeCatalogue(filePath string, products []model.Product) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if err := catalogue.Write(gzipWriter, products); err != nil {
		return fmt.Errorf("failed to write catalogue: %w", err)
	}

	return gzipWriter.Close()
}
