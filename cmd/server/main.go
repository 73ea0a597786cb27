package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/config"
	"github.com/postdeck/internal/db"
	"github.com/postdeck/internal/handler"
	"github.com/postdeck/internal/router"
	"github.com/postdeck/internal/service"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 确保存在可登录的管理账号
	if cfg.AdminUserName != "" && cfg.AdminPassword != "" {
		if err := db.EnsureUser(cfg.AdminUserName, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to ensure admin user: %v", err)
		}
	}

	// 账号表为空时写入演示数据
	if err := service.NewAccountService(db.DB).EnsureDemoAccounts(); err != nil {
		log.Printf("failed to seed demo accounts: %v", err)
	}

	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
	})
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
