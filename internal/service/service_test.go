package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"kittygram_backend/internal/config"
	"kittygram_backend/internal/model"
	"kittygram_backend/internal/repository"
	"kittygram_backend/pkg/database"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	mediaRoot string
	storage   *StorageService
	cache     *memoryCatCache
	cats      *CatService
	owner     *model.User
	stranger  *model.User
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := database.Open(&config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(dir, "test.db"),
	}, "test")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: filepath.Join(dir, "media")}}
	storage := NewStorageService(cfg)
	cache := newMemoryCatCache()

	users := repository.NewUserRepository(db)
	owner, err := users.GetOrCreateByUsername(context.Background(), "owner")
	require.NoError(t, err)
	stranger, err := users.GetOrCreateByUsername(context.Background(), "stranger")
	require.NoError(t, err)

	return &testEnv{
		db:        db,
		mediaRoot: cfg.Storage.LocalPath,
		storage:   storage,
		cache:     cache,
		cats: NewCatService(
			repository.NewCatRepository(db),
			repository.NewAchievementRepository(db),
			storage,
			cache,
		),
		owner:    owner,
		stranger: stranger,
	}
}

// memoryCatCache 测试用的进程内缓存
type memoryCatCache struct {
	mu      sync.Mutex
	entries map[uint]model.Cat
	hits    int
	// onInvalidate 在删除条目后、释放锁之外调用，用来模拟并发读回填
	onInvalidate func(id uint)
}

func newMemoryCatCache() *memoryCatCache {
	return &memoryCatCache{entries: make(map[uint]model.Cat)}
}

func (c *memoryCatCache) Get(ctx context.Context, id uint) (*model.Cat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cat, ok := c.entries[id]
	if ok {
		c.hits++
	}
	return &cat, ok
}

func (c *memoryCatCache) Set(ctx context.Context, cat *model.Cat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cat.ID] = *cat
}

func (c *memoryCatCache) Invalidate(ctx context.Context, id uint) {
	c.mu.Lock()
	delete(c.entries, id)
	hook := c.onInvalidate
	c.mu.Unlock()
	if hook != nil {
		hook(id)
	}
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func achievementsPayload(names ...string) *[]AchievementPayload {
	list := make([]AchievementPayload, len(names))
	for i := range names {
		list[i] = AchievementPayload{AchievementName: strPtr(names[i])}
	}
	return &list
}

func validInput(t *testing.T, p CatPayload, partial bool) *CatInput {
	t.Helper()
	in, errs := p.Validate(partial)
	require.Empty(t, errs)
	require.NotNil(t, in)
	return in
}
