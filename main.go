// @title Kittygram 后端 API
// @version 1.0
// @description 猫与成就的 REST 服务。图片以 base64 data URI 或 multipart 上传，颜色以十六进制提交、按名称返回。

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 形如 "Bearer <token>"，token 可用 scripts/issue_token.go 签发

package main

import (
	"flag"
	"fmt"
	"kittygram_backend/internal/app"
	"kittygram_backend/internal/config"
	"kittygram_backend/pkg/logger"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "config.yaml 所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "release 模式下也执行迁移")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		// logger 依赖配置，这里只能直接写 stderr
		fmt.Fprintf(os.Stderr, "load config from %s: %v\n", *configDir, err)
		os.Exit(1)
	}
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if cfg.MigrateOnly {
		logger.Log.Info("migration finished", zap.String("driver", cfg.Database.Driver))
		return
	}

	application.ConfigPath = filepath.Join(*configDir, "config.yaml")
	application.Run()
}
