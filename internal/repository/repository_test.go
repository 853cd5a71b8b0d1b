package repository

import (
	"context"
	"kittygram_backend/internal/config"
	"kittygram_backend/internal/model"
	"kittygram_backend/pkg/database"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}, "test")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user, err := NewUserRepository(db).GetOrCreateByUsername(context.Background(), username)
	require.NoError(t, err)
	return user
}

func createTestCat(t *testing.T, db *gorm.DB, ownerID uint, name string) *model.Cat {
	t.Helper()
	cat := &model.Cat{Name: name, Color: "black", BirthYear: 2019, OwnerID: ownerID}
	require.NoError(t, NewCatRepository(db).Create(context.Background(), cat))
	return cat
}
