package router

import (
	"net/http"

	config "gtm-blueprint-api/configs"
	"gtm-blueprint-api/pkg/catalog"
	"gtm-blueprint-api/pkg/handlers"
	"gtm-blueprint-api/pkg/logger"
	"gtm-blueprint-api/pkg/openai"
	"gtm-blueprint-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies ルーターが使用するサービス群
// Blueprint が nil の場合はAPIキー未設定として起動します。
type Dependencies struct {
	Config    *config.Config
	Catalog   services.CatalogSource
	Blueprint *services.BlueprintService
	Monitor   *services.MonitoringService
}

// NewDependencies 設定からサービスを初期化
func NewDependencies(cfg *config.Config) *Dependencies {
	deps := &Dependencies{
		Config:  cfg,
		Catalog: catalog.NewProvider(cfg.CatalogSeed, cfg.CatalogFresh),
		Monitor: services.NewMonitoringService(),
	}

	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Error(config.ConfigurationMissingMessage)
		return deps
	}

	client := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	deps.Blueprint = services.NewBlueprintService(client, deps.Catalog, services.BlueprintOptions{
		Model:             cfg.OpenAIModel,
		RequestsPerMinute: cfg.BlueprintRPM,
		Monitor:           deps.Monitor,
	})
	return deps
}

// New はGinルーターを組み立てます。
func New(deps *Dependencies) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(handlers.PageTemplate())

	blueprintHandler := handlers.NewBlueprintHandler(deps.Catalog, deps.Blueprint)
	adminHandler := handlers.NewAdminHandler(deps.Config)
	monitoringHandler := handlers.NewMonitoringHandler(deps.Monitor)

	// ミドルウェアの登録
	r.Use(deps.Monitor.LoggingMiddleware())
	r.Use(cors.Default())

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// 画面
	r.GET("/", blueprintHandler.Index)
	r.POST("/generate", blueprintHandler.Generate)
	r.GET("/export", blueprintHandler.ExportProducts)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	v1.Use(handlers.APIKeyMiddleware(deps.Config.APIKey))
	{
		v1.GET("/hello", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Hello from GTM Blueprint API!"})
		})

		products := v1.Group("/products")
		{
			products.GET("", blueprintHandler.GetProducts)
			products.GET("/export", blueprintHandler.ExportProducts)
		}

		blueprint := v1.Group("/blueprint")
		{
			blueprint.POST("", blueprintHandler.CreateBlueprint)
			blueprint.POST("/prompt", blueprintHandler.PreviewPrompt)
		}

		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		// モニタリングAPI
		v1.GET("/monitoring/logs", monitoringHandler.GetLogs)
	}

	return r
}
