package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Ensure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Ensure(ctx, 42, "tom"))
	require.NoError(t, repo.Ensure(ctx, 42, "tom"))

	user, err := repo.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "tom", user.Username)

	byName, err := repo.FindByUsername(ctx, "tom")
	require.NoError(t, err)
	assert.Equal(t, uint(42), byName.ID)
}

func TestUserRepository_GetOrCreateByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first, err := repo.GetOrCreateByUsername(ctx, "jerry")
	require.NoError(t, err)
	second, err := repo.GetOrCreateByUsername(ctx, "jerry")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUserRepository_EnsureUsernameHeldByAnotherID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Ensure(ctx, 1, "tom"))

	err := repo.Ensure(ctx, 2, "tom")
	assert.ErrorIs(t, err, ErrUserConflict)

	_, err = repo.FindByID(ctx, 2)
	assert.Error(t, err)
}
