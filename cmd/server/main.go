package main

import (
	"log"

	config "gtm-blueprint-api/configs"
	"gtm-blueprint-api/pkg/logger"
	"gtm-blueprint-api/pkg/router"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("FATAL: ロガーの初期化に失敗: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// APIキーが無い場合も起動し、画面にエラーを表示します
	r := router.New(router.NewDependencies(cfg))

	logger.Log.Infof("🚀 Starting GTM Blueprint server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
