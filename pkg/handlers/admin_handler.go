package handlers

import (
	"crypto/subtle"
	"net/http"
	"sync/atomic"

	config "gtm-blueprint-api/configs"
	"gtm-blueprint-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// isMaintenanceMode はサーバーがメンテナンスモードかどうかを示します。
// メンテナンス中はヘルスチェックとブループリント生成が503を返します。
var isMaintenanceMode atomic.Bool

// AdminHandler は管理者向け操作のハンドラです。
type AdminHandler struct {
	AdminUsername string
	AdminPassword string
}

// NewAdminHandler は新しいAdminHandlerを生成します。
func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	}
}

// AdminCredentials は管理者認証のためのリクエストボディです。
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// authorize 認証情報を検証し、失敗した場合はレスポンスを書き込んでfalseを返す
func (h *AdminHandler) authorize(c *gin.Context) bool {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return false
	}

	// 管理者が未設定の場合は常に拒否
	if h.AdminUsername == "" || h.AdminPassword == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(h.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(h.AdminPassword)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return false
	}
	return true
}

func (h *AdminHandler) setMaintenance(c *gin.Context, on bool) {
	if !h.authorize(c) {
		return
	}
	isMaintenanceMode.Store(on)
	logger.Log.WithField("maintenance", on).Warn("🛠️ メンテナンスモードを変更しました")

	message := "Maintenance mode stopped"
	if on {
		message = "Maintenance mode started"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// StartMaintenance はメンテナンスモードを開始します。
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	h.setMaintenance(c, true)
}

// StopMaintenance はメンテナンスモードを停止します。
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	h.setMaintenance(c, false)
}

// GetHealthStatus は現在のサーバーの状態を返します。
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isMaintenanceMode": isMaintenanceMode.Load()})
}

// HealthCheck は外部のヘルスチェッカー（例: ロードバランサー）からのリクエストに応答します。
func HealthCheck(c *gin.Context) {
	if isMaintenanceMode.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": maintenanceMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
