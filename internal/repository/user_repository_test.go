package repository

import (
	"context"
	"testing"

	"inventory-billing/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool, zerolog.Nop())
	ctx := context.Background()

	count, err := repo.CountByRole(ctx, "super_admin")
	require.NoError(t, err)
	assert.Zero(t, count)

	u := &model.User{Username: "root", PasswordHash: "hash", Role: "super_admin"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)

	err = repo.Create(ctx, &model.User{Username: "root", PasswordHash: "x", Role: "staff"})
	assert.Equal(t, model.ErrUserExists, err)

	require.NoError(t, repo.Create(ctx, &model.User{Username: "cashier", PasswordHash: "x", Role: "staff"}))

	count, err = repo.CountByRole(ctx, "super_admin")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, "super_admin", got.Role)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Roles outside the known set are rejected by the schema.
	err = repo.Create(ctx, &model.User{Username: "weird", PasswordHash: "x", Role: "owner"})
	assert.Error(t, err)
}
