package controller

import (
	"context"
	"kittygram_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	componentUp       = "up"
	componentDown     = "down"
	componentDisabled = "disabled"

	healthTimeout = 2 * time.Second
)

// HealthController 检查数据库与可选的 redis 缓存
type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

func (c *HealthController) databaseStatus(ctx context.Context) string {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return componentDown
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return componentDown
	}
	return componentUp
}

func (c *HealthController) redisStatus(ctx context.Context) string {
	if c.Redis == nil {
		return componentDisabled
	}
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		return componentDown
	}
	return componentUp
}

// @Summary 健康检查
// @Description 数据库不可用时返回 503；redis 未启用时标记为 disabled，不可用时返回 503
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	components := gin.H{
		"database": c.databaseStatus(checkCtx),
		"redis":    c.redisStatus(checkCtx),
	}

	status := http.StatusOK
	for _, state := range components {
		if state == componentDown {
			status = http.StatusServiceUnavailable
		}
	}

	if status != http.StatusOK {
		ctx.JSON(status, util.Response{
			Code:    status,
			Message: "Service unavailable",
			Data:    gin.H{"status": "degraded", "components": components},
		})
		return
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
