package catalogue

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inventory-billing/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "id,name,category,price,stock,unit"

// createTestCatalogueFile writes rows under the catalogue header, gzipped when filename ends in .gz.
func createTestCatalogueFile(t *testing.T, filename string, rows []string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), filename)
	content := header + "\n" + strings.Join(rows, "\n") + "\n"

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	if !strings.HasSuffix(filename, ".gz") {
		_, err = file.WriteString(content)
		require.NoError(t, err)
		return filePath
	}

	gzipWriter := gzip.NewWriter(file)
	_, err = gzipWriter.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return filePath
}

func TestFileLoader_Load_Gzipped(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogueFile(t, "catalogue.csv.gz", []string{
		"rice-5kg,Basmati Rice,Grocery,12.50,40,bag",
		"milk-1l,Whole Milk,Dairy,1.20,3,carton",
	})

	products, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "rice-5kg", products[0].ID)
	assert.Equal(t, "Basmati Rice", products[0].Name)
	assert.Equal(t, "Grocery", products[0].Category)
	assert.True(t, decimal.RequireFromString("12.50").Equal(products[0].Price))
	assert.Equal(t, 40, products[0].Stock)
	assert.Equal(t, "bag", products[0].Unit)
	assert.Equal(t, "milk-1l", products[1].ID)
	assert.Equal(t, 3, products[1].Stock)
}

func TestFileLoader_Load_PlainCSV(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogueFile(t, "catalogue.csv", []string{
		"pen,  Blue Pen  ,Stationery,0.99,100,piece",
	})

	products, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Blue Pen", products[0].Name, "names should be trimmed")
}

func TestFileLoader_Load_InvalidRows(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		message string
	}{
		{name: "missing id", row: ",Soap,Personal Care,2.00,5,bar", message: "id is required"},
		{name: "missing name", row: "soap,,Personal Care,2.00,5,bar", message: "product name is required"},
		{name: "bad price", row: "soap,Soap,Personal Care,two,5,bar", message: "invalid price"},
		{name: "negative price", row: "soap,Soap,Personal Care,-1,5,bar", message: "price must not be negative"},
		{name: "sub-cent price", row: "soap,Soap,Personal Care,2.005,5,bar", message: "at most 2 decimal places"},
		{name: "negative stock", row: "soap,Soap,Personal Care,2.00,-5,bar", message: "stock must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFileLoader(zerolog.Nop())
			filePath := createTestCatalogueFile(t, "catalogue.csv", []string{
				"ok,Fine,Misc,1.00,1,piece",
				tt.row,
			})

			products, err := loader.Load(context.Background(), filePath)

			require.Error(t, err)
			assert.Nil(t, products)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Contains(t, err.Error(), "row 3")
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	products, err := loader.Load(context.Background(), "/nonexistent/catalogue.csv.gz")

	assert.Error(t, err)
	assert.Nil(t, products)
	assert.Contains(t, err.Error(), "failed to open catalogue file")
}

func TestFileLoader_Load_InvalidGzip(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "broken.csv.gz")
	require.NoError(t, os.WriteFile(filePath, []byte("not gzip data"), 0o644))

	loader := NewFileLoader(zerolog.Nop())
	products, err := loader.Load(context.Background(), filePath)

	assert.Error(t, err)
	assert.Nil(t, products)
	assert.Contains(t, err.Error(), "gzip")
}

func TestFileLoader_Load_HeaderOnly(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(filePath, []byte(header+"\n"), 0o644))

	loader := NewFileLoader(zerolog.Nop())
	products, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFileLoader_Load_ContextCancellation(t *testing.T) {
	filePath := createTestCatalogueFile(t, "catalogue.csv.gz", []string{
		"a,Apple,Fruit,0.50,10,piece",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewFileLoader(zerolog.Nop())
	products, err := loader.Load(ctx, filePath)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, products)
}

func TestFileLoader_Load_LargeFile(t *testing.T) {
	rows := make([]string, 0, 25_000)
	for i := range 25_000 {
		rows = append(rows, fmt.Sprintf("sku-%05d,Item %d,Bulk,%d.25,%d,piece", i, i, i%50, i%7))
	}
	filePath := createTestCatalogueFile(t, "large.csv.gz", rows)

	loader := NewFileLoader(zerolog.Nop())
	products, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Len(t, products, 25_000)
	assert.Equal(t, "sku-24999", products[24_999].ID)
}

func TestWrite_RoundTripsThroughDecode(t *testing.T) {
	in := []model.Product{
		{ID: "tea", Name: "Green Tea", Category: "Beverages", Price: decimal.RequireFromString("4.5"), Stock: 12, Unit: "box"},
		{ID: "salt", Name: "Sea Salt", Category: "Grocery", Price: decimal.Zero, Stock: 0, Unit: "jar"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), header+"\n"))
	assert.Contains(t, buf.String(), "tea,Green Tea,Beverages,4.50,12,box")

	out, err := decode(context.Background(), &buf, false)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.True(t, in[i].Price.Equal(out[i].Price))
		assert.Equal(t, in[i].Stock, out[i].Stock)
	}
}

func TestDecode_MalformedCSV(t *testing.T) {
	_, err := decode(context.Background(), strings.NewReader(header+"\n\"unterminated,row\n"), false)

	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrValidation))
	assert.Contains(t, err.Error(), "failed to parse catalogue")
}
