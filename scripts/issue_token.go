// 为指定用户名签发 JWT，用于本地调试写接口
//
// 用户不存在时自动创建。
//
// 用法: go run scripts/issue_token.go -username tom

package main

import (
	"context"
	"flag"
	"fmt"
	"kittygram_backend/internal/config"
	"kittygram_backend/internal/repository"
	"kittygram_backend/internal/util"
	"kittygram_backend/pkg/database"
	"log"
)

func main() {
	username := flag.String("username", "", "用户名")
	configDir := flag.String("config", "configs", "配置目录")
	flag.Parse()

	if *username == "" {
		log.Fatal("必须指定 -username")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.Server.Mode != "release")
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	user, err := repository.NewUserRepository(db).GetOrCreateByUsername(context.Background(), *username)
	if err != nil {
		log.Fatalf("创建用户失败: %v", err)
	}

	token, err := util.GenerateJWT(user.ID, user.Username, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		log.Fatalf("签发 token 失败: %v", err)
	}

	fmt.Printf("user_id: %d\ntoken: %s\n", user.ID, token)
}
