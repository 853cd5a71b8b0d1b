package database

import (
	"fmt"
	"kittygram_backend/internal/config"
	"kittygram_backend/internal/model"
	"kittygram_backend/pkg/logger"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open 按配置打开数据库连接并注册关联表，不做迁移
func Open(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	db, err := open(cfg, mode)
	if err != nil {
		return nil, err
	}
	// achievement_cats 作为 Cat.Achievements 的自定义关联表
	if err := db.SetupJoinTable(&model.Cat{}, "Achievements", &model.AchievementCat{}); err != nil {
		return nil, fmt.Errorf("setup join table: %w", err)
	}
	return db, nil
}

// newGormLogger 未命中查询（get-or-create 的常规路径）不记为错误
func newGormLogger(mode string) gormlogger.Interface {
	logLevel := gormlogger.Warn
	if mode == "debug" {
		logLevel = gormlogger.Info
	}
	return gormlogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  mode == "debug",
	})
}

func open(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: newGormLogger(mode),
	}

	switch cfg.Driver {
	case DriverSQLite:
		if err := ensureDirForSQLite(cfg.Path); err != nil {
			return nil, err
		}
		return gorm.Open(sqlite.Open(cfg.Path), gormCfg)
	case DriverMySQL, "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return gorm.Open(mysql.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Achievement{},
		&model.Cat{},
		&model.AchievementCat{},
	)
}

func InitDB(cfg *config.DatabaseConfig, mode string, migrate bool) (*gorm.DB, error) {
	db, err := Open(cfg, mode)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Driver))

	if !migrate {
		return db, nil
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Log.Info("Database migration completed")

	return db, nil
}

// ensureDirForSQLite 为 sqlite 文件创建父目录
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
