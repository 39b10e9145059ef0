package repository

import (
	"context"
	"testing"
	"time"

	"inventory-billing/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertBill(t *testing.T, repo BillRepository, bill *model.Bill) {
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	require.NoError(t, repo.Insert(ctx, tx, bill))
	require.NoError(t, repo.InsertItems(ctx, tx, bill.ID, bill.Items))
	require.NoError(t, tx.Commit(ctx))
}

func TestBillRepository_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBillRepository(pool, zerolog.Nop())

	bill := &model.Bill{
		Total:     dec("31.50"),
		CreatedBy: "cashier",
		Items: []model.BillItem{
			{ProductID: "P002", ProductName: "Bread", Quantity: 1, UnitPrice: dec("1.50"), LineTotal: dec("1.50")},
			{ProductID: "P001", ProductName: "Rice", Quantity: 2, UnitPrice: dec("15.00"), LineTotal: dec("30.00")},
		},
	}
	insertBill(t, repo, bill)

	assert.NotEqual(t, uuid.Nil, bill.ID)
	assert.False(t, bill.CreatedAt.IsZero())

	got, err := repo.GetByID(context.Background(), bill.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, bill.ID, got.ID)
	assert.Equal(t, "cashier", got.CreatedBy)
	assert.True(t, dec("31.50").Equal(got.Total))
	require.Len(t, got.Items, 2)
	// Items keep their sale order.
	assert.Equal(t, "P002", got.Items[0].ProductID)
	assert.Equal(t, "P001", got.Items[1].ProductID)
	assert.Equal(t, "Rice", got.Items[1].ProductName)
	assert.Equal(t, 2, got.Items[1].Quantity)
	assert.True(t, dec("15").Equal(got.Items[1].UnitPrice))
	assert.True(t, dec("30").Equal(got.Items[1].LineTotal))
}

func TestBillRepository_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBillRepository(pool, zerolog.Nop())

	got, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBillRepository_TransactionRollback(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBillRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	bill := &model.Bill{Total: dec("5"), CreatedBy: "cashier"}
	require.NoError(t, repo.Insert(ctx, tx, bill))
	require.NoError(t, tx.Rollback(ctx))

	got, err := repo.GetByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBillRepository_SumTotalsInRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBillRepository(pool, zerolog.Nop())
	ctx := context.Background()

	dayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	empty, err := repo.SumTotalsInRange(ctx, dayStart, dayEnd)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	insertBill(t, repo, &model.Bill{Total: dec("60"), CreatedBy: "a", CreatedAt: dayStart.Add(9 * time.Hour)})
	insertBill(t, repo, &model.Bill{Total: dec("40"), CreatedBy: "a", CreatedAt: dayStart})
	insertBill(t, repo, &model.Bill{Total: dec("50"), CreatedBy: "a", CreatedAt: dayStart.Add(-time.Minute)})
	insertBill(t, repo, &model.Bill{Total: dec("70"), CreatedBy: "a", CreatedAt: dayEnd})

	sum, err := repo.SumTotalsInRange(ctx, dayStart, dayEnd)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(sum), "got %s", sum)
}
