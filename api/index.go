package handler

import (
	"net/http"
	"sync"

	config "gtm-blueprint-api/configs"
	"gtm-blueprint-api/pkg/logger"
	"gtm-blueprint-api/pkg/router"

	"github.com/gin-gonic/gin"
)

var (
	app  *gin.Engine
	once sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
func setupApp() *gin.Engine {
	once.Do(func() {
		// .envファイルはVercelの環境変数設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()
		if err := logger.InitLogger(cfg.LogLevel, ""); err != nil {
			logger.Log.WithError(err).Warn("ロガーの初期化に失敗")
		}
		logger.Log.Info("🟢 [setupApp] Initializing Gin application")

		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		app = router.New(router.NewDependencies(cfg))
	})
	return app
}

// Handler はVercelからのすべてのリクエストを処理するエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	logger.Log.Debugf("🔵 [Handler] Request received: %s %s", r.Method, r.URL.Path)
	setupApp().ServeHTTP(w, r)
}
