package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestAchievementRepository_GetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)
	ctx := context.Background()

	first, created, err := repo.GetOrCreate(ctx, "поймал мышку")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second, created, err := repo.GetOrCreate(ctx, "поймал мышку")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAchievementRepository_ListAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)
	ctx := context.Background()

	for _, name := range []string{"b", "a", "c"} {
		_, _, err := repo.GetOrCreate(ctx, name)
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "b", list[0].Name)

	found, err := repo.FindByID(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "a", found.Name)

	_, err = repo.FindByID(ctx, 999)
	assert.Error(t, err)
}

// traceRecorder 记录 gorm 每条 SQL 的错误
type traceRecorder struct {
	errs []error
}

func (r *traceRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *traceRecorder) Info(context.Context, string, ...interface{})     {}
func (r *traceRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *traceRecorder) Error(context.Context, string, ...interface{})    {}
func (r *traceRecorder) Trace(_ context.Context, _ time.Time, _ func() (string, int64), err error) {
	if err != nil {
		r.errs = append(r.errs, err)
	}
}

func TestAchievementRepository_GetOrCreateMissIsNotAnError(t *testing.T) {
	recorder := &traceRecorder{}
	db := setupTestDB(t).Session(&gorm.Session{Logger: recorder})
	repo := NewAchievementRepository(db)

	_, created, err := repo.GetOrCreate(context.Background(), "спит весь день")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, recorder.errs)
}
