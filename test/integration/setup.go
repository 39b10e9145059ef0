package integration

import (
	"context"
	"testing"
	"time"

	"inventory-billing/internal/config"
	"inventory-billing/internal/database"
	"inventory-billing/internal/model"
	"inventory-billing/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connection pool and schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, config.DatabaseConfig{
		MaxConnections:  20,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedProducts inserts test product data into the database.
// P004 is the only product with a single unit left.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	repo := repository.NewProductRepository(pool, zerolog.Nop())

	products := []model.Product{
		{ID: "P001", Name: "Test Product 1", Category: "Category A", Price: decimal.RequireFromString("10.00"), Stock: 10, Unit: "piece"},
		{ID: "P002", Name: "Test Product 2", Category: "Category B", Price: decimal.RequireFromString("20.00"), Stock: 4, Unit: "piece"},
		{ID: "P003", Name: "Test Product 3", Category: "Category A", Price: decimal.RequireFromString("30.00"), Stock: 5, Unit: "piece"},
		{ID: "P004", Name: "Test Product 4", Category: "Category C", Price: decimal.RequireFromString("40.00"), Stock: 1, Unit: "piece"},
	}

	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			t.Fatalf("failed to seed product %s: %v", products[i].ID, err)
		}
	}
}

// StockOf reads the current stock of a product.
func StockOf(t *testing.T, pool *pgxpool.Pool, id string) int {
	t.Helper()

	var stock int
	if err := pool.QueryRow(context.Background(), "SELECT stock FROM products WHERE id = $1", id).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock of %s: %v", id, err)
	}
	return stock
}

// CleanupProducts removes products and bills but keeps user accounts.
func CleanupProducts(t *testing.T, db *TestDB) {
	t.Helper()

	if _, err := db.Pool.Exec(context.Background(), "TRUNCATE bill_items, bills, products"); err != nil {
		t.Fatalf("failed to clean products: %v", err)
	}
}
