package handlers

import (
	"crypto/subtle"
	"net/http"

	"gtm-blueprint-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// periodHours 期間指定の文字列を時間数に変換（不明な値は24時間）
func periodHours(period string) int {
	switch period {
	case "1h":
		return 1
	case "7d":
		return 24 * 7
	default:
		return 24
	}
}

// APIKeyMiddleware は X-API-KEY ヘッダーを検証します。apiKey が空の場合は検証しません。
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader("X-API-KEY")), []byte(apiKey)) != 1 {
			logger.Log.WithField("path", c.Request.URL.Path).Warn("❌ [認証] 無効なAPI Key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
