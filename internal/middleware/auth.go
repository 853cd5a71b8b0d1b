package middleware

import (
	"context"
	"kittygram_backend/internal/util"
	"kittygram_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserEnsurer 为 token 中的用户建档，保证 owner 外键有效
type UserEnsurer interface {
	Ensure(ctx context.Context, id uint, username string) error
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

func authenticate(c *gin.Context, secret string, users UserEnsurer) (*util.Claims, error) {
	claims, err := util.ParseJWT(bearerToken(c), secret)
	if err != nil {
		return nil, err
	}
	if err := users.Ensure(c.Request.Context(), claims.UserID, claims.Username); err != nil {
		logger.Log.Warn("token 用户建档失败", zap.Uint("user_id", claims.UserID), zap.String("username", claims.Username), zap.Error(err))
		return nil, err
	}
	return claims, nil
}

// AuthMiddleware 要求有效的 Bearer token
func AuthMiddleware(secret string, users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := authenticate(c, secret, users)
		if err != nil {
			logger.Log.Debug("JWT解析失败", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// TryAuthMiddleware 匿名可读：带了 token 就解析，无效的 token 仍然返回 401
func TryAuthMiddleware(secret string, users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			c.Next()
			return
		}

		claims, err := authenticate(c, secret, users)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}
