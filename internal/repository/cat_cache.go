package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"kittygram_backend/internal/model"
	"kittygram_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CatCache 猫详情的读穿缓存。缓存故障只记日志，不影响请求
type CatCache interface {
	Get(ctx context.Context, id uint) (*model.Cat, bool)
	Set(ctx context.Context, cat *model.Cat)
	Invalidate(ctx context.Context, id uint)
}

type RedisCatCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatCache(rdb *redis.Client, ttl time.Duration) *RedisCatCache {
	return &RedisCatCache{rdb: rdb, ttl: ttl}
}

func catCacheKey(id uint) string {
	return fmt.Sprintf("kittygram:cat:%d", id)
}

func (c *RedisCatCache) Get(ctx context.Context, id uint) (*model.Cat, bool) {
	data, err := c.rdb.Get(ctx, catCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("cat cache get failed", zap.Uint("cat_id", id), zap.Error(err))
		}
		return nil, false
	}

	var cat model.Cat
	if err := json.Unmarshal(data, &cat); err != nil {
		logger.Log.Warn("cat cache entry corrupted", zap.Uint("cat_id", id), zap.Error(err))
		return nil, false
	}
	return &cat, true
}

func (c *RedisCatCache) Set(ctx context.Context, cat *model.Cat) {
	data, err := json.Marshal(cat)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, catCacheKey(cat.ID), data, c.ttl).Err(); err != nil {
		logger.Log.Warn("cat cache set failed", zap.Uint("cat_id", cat.ID), zap.Error(err))
	}
}

func (c *RedisCatCache) Invalidate(ctx context.Context, id uint) {
	if err := c.rdb.Del(ctx, catCacheKey(id)).Err(); err != nil {
		logger.Log.Warn("cat cache invalidate failed", zap.Uint("cat_id", id), zap.Error(err))
	}
}
