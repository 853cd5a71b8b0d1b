package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCatRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	cat := createTestCat(t, db, owner.ID, "Барсик")

	repo := NewCatRepository(db)
	found, err := repo.FindByID(context.Background(), cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Барсик", found.Name)
	assert.Equal(t, owner.ID, found.OwnerID)
	assert.Empty(t, found.Achievements)
	assert.Nil(t, found.Image)
}

func TestCatRepository_AddAndReplaceAchievements(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	cat := createTestCat(t, db, owner.ID, "Мурзик")

	achievements := NewAchievementRepository(db)
	a, _, err := achievements.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	b, _, err := achievements.GetOrCreate(ctx, "b")
	require.NoError(t, err)
	c, _, err := achievements.GetOrCreate(ctx, "c")
	require.NoError(t, err)

	repo := NewCatRepository(db)
	require.NoError(t, repo.AddAchievements(ctx, cat.ID, []uint{a.ID, b.ID, a.ID}))

	found, err := repo.FindByID(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, found.Achievements, 2)
	assert.Equal(t, "a", found.Achievements[0].Name)
	assert.Equal(t, "b", found.Achievements[1].Name)

	require.NoError(t, repo.ReplaceAchievements(ctx, cat.ID, []uint{c.ID}))
	found, err = repo.FindByID(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, found.Achievements, 1)
	assert.Equal(t, "c", found.Achievements[0].Name)

	require.NoError(t, repo.ReplaceAchievements(ctx, cat.ID, nil))
	found, err = repo.FindByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Achievements)
}

func TestCatRepository_ListPaginates(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	for _, name := range []string{"one", "two", "three"} {
		createTestCat(t, db, owner.ID, name)
	}

	repo := NewCatRepository(db)
	cats, total, err := repo.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, cats, 1)
	assert.Equal(t, "three", cats[0].Name)
}

func TestCatRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	cat := createTestCat(t, db, owner.ID, "Пушок")

	a, _, err := NewAchievementRepository(db).GetOrCreate(ctx, "a")
	require.NoError(t, err)

	repo := NewCatRepository(db)
	require.NoError(t, repo.AddAchievements(ctx, cat.ID, []uint{a.ID}))
	require.NoError(t, repo.Delete(ctx, cat.ID))

	_, err = repo.FindByID(ctx, cat.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var links int64
	require.NoError(t, db.Table("achievement_cats").Where("cat_id = ?", cat.ID).Count(&links).Error)
	assert.Zero(t, links)
}
