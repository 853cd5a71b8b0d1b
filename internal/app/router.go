package app

import (
	"kittygram_backend/docs"
	"kittygram_backend/internal/config"
	"kittygram_backend/internal/middleware"
	"kittygram_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// 读接口：可选认证，允许匿名访问
	public := api.Group("")
	public.Use(middleware.TryAuthMiddleware(cfg.JWT.Secret, repos.user))
	{
		public.GET("/cats", c.cat.ListCats)
		public.GET("/cats/:id", c.cat.GetCat)
		public.GET("/achievements", c.achievement.ListAchievements)
		public.GET("/achievements/:id", c.achievement.GetAchievement)
	}

	// 写接口：强制认证
	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(cfg.JWT.Secret, repos.user))
	{
		authorized.POST("/cats", c.cat.CreateCat)
		authorized.PUT("/cats/:id", c.cat.UpdateCat)
		authorized.PATCH("/cats/:id", c.cat.UpdateCat)
		authorized.DELETE("/cats/:id", c.cat.DeleteCat)
		authorized.POST("/achievements", c.achievement.CreateAchievement)
	}
}
