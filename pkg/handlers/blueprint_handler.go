package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	config "gtm-blueprint-api/configs"
	"gtm-blueprint-api/pkg/catalog"
	"gtm-blueprint-api/pkg/logger"
	"gtm-blueprint-api/pkg/models"
	"gtm-blueprint-api/pkg/services"

	"github.com/gin-gonic/gin"
)

const (
	// PageTitle 画面タイトル
	PageTitle = "AI GTM Blueprint Generator"
	// PageSubtitle 画面のサブタイトル
	PageSubtitle = "Generate GTM strategy based on real market signals (trending launches, sentiment, competitors)"
	// PageFooter 画面フッター
	PageFooter = "💡 AI GTM Blueprint Generator | Powered by OpenAI | Sample data used for demo"
	// PageTemplateName ページテンプレート名
	PageTemplateName = "index.html"

	maintenanceMessage = "Server is in maintenance mode"
)

// エクスポート関数（テストで差し替え可能）
var (
	exportCSV  = services.ExportCatalogCSV
	exportXLSX = services.ExportCatalogXLSX
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate はgin.Engine.SetHTMLTemplateに渡すテンプレートを返します。
func PageTemplate() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// pageData 画面描画用のデータ
type pageData struct {
	PageTitle          string
	Subtitle           string
	Footer             string
	ConfigError        string
	Catalog            catalog.Catalog
	Selected           string
	IncludeCompetitors bool
	IncludePricing     bool
	Heading            string
	Blueprint          template.HTML
	Error              string
}

// BlueprintHandler GTMブループリントの画面とAPIのハンドラー
type BlueprintHandler struct {
	source  services.CatalogSource
	service *services.BlueprintService
}

// NewBlueprintHandler 新しいBlueprintHandlerを作成
// serviceがnilの場合はAPIキー未設定として扱い、トリガーをすべて拒否します。
func NewBlueprintHandler(source services.CatalogSource, service *services.BlueprintService) *BlueprintHandler {
	return &BlueprintHandler{
		source:  source,
		service: service,
	}
}

func (h *BlueprintHandler) configured() bool {
	return h.service != nil
}

func (h *BlueprintHandler) newPage(c catalog.Catalog) pageData {
	page := pageData{
		PageTitle:          PageTitle,
		Subtitle:           PageSubtitle,
		Footer:             PageFooter,
		Catalog:            c,
		IncludeCompetitors: true,
		IncludePricing:     true,
	}
	if len(c) > 0 {
		page.Selected = c[0].Name
	}
	if !h.configured() {
		page.ConfigError = config.ConfigurationMissingMessage
	}
	return page
}

// Index 画面を表示（初期状態：先頭の製品、チェックボックスは両方オン）
func (h *BlueprintHandler) Index(c *gin.Context) {
	page := h.newPage(h.source.Current())
	status := http.StatusOK
	if !h.configured() {
		status = http.StatusServiceUnavailable
	}
	c.HTML(status, PageTemplateName, page)
}

// Generate 画面からのトリガー。結果またはエラーを同じ画面に表示します。
func (h *BlueprintHandler) Generate(c *gin.Context) {
	current := h.source.Current()
	page := h.newPage(current)

	if !h.configured() {
		c.HTML(http.StatusServiceUnavailable, PageTemplateName, page)
		return
	}
	if isMaintenanceMode.Load() {
		page.Error = maintenanceMessage
		c.HTML(http.StatusServiceUnavailable, PageTemplateName, page)
		return
	}

	// 未チェックのチェックボックスはフォームに含まれない
	req := models.AnalysisRequest{
		SelectedProduct:    c.PostForm("product"),
		IncludeCompetitors: c.PostForm("include_competitors") != "",
		IncludePricing:     c.PostForm("include_pricing") != "",
	}
	if _, err := current.Lookup(req.SelectedProduct); err == nil {
		page.Selected = req.SelectedProduct
	}
	page.IncludeCompetitors = req.IncludeCompetitors
	page.IncludePricing = req.IncludePricing

	outcome := h.service.ComposeFrom(c.Request.Context(), current, req)
	if outcome.Kind != services.OutcomeSuccess {
		page.Error = outcome.Message
		c.HTML(http.StatusOK, PageTemplateName, page)
		return
	}

	html, err := services.RenderMarkdown(outcome.Result.Markdown)
	if err != nil {
		page.Error = services.GenericErrorPrefix + err.Error()
		c.HTML(http.StatusOK, PageTemplateName, page)
		return
	}
	page.Heading = outcome.Result.Heading
	page.Blueprint = html
	c.HTML(http.StatusOK, PageTemplateName, page)
}

// GetProducts 注目製品の一覧を返す
func (h *BlueprintHandler) GetProducts(c *gin.Context) {
	current := h.source.Current()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    current,
		"count":   len(current),
	})
}

// ExportProducts 注目製品の一覧をxlsxまたはcsvでダウンロード
func (h *BlueprintHandler) ExportProducts(c *gin.Context) {
	contentType, ext, ok := services.ExportFormat(c.DefaultQuery("format", "xlsx"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("無効な形式です: %s。'xlsx' または 'csv' を指定してください。", c.Query("format")),
		})
		return
	}

	// 失敗時に200を返さないよう、書き出しが終わってからレスポンスを送る
	var buf bytes.Buffer
	var err error
	if ext == "csv" {
		err = exportCSV(h.source.Current(), &buf)
	} else {
		err = exportXLSX(h.source.Current(), &buf)
	}
	if err != nil {
		logger.Log.WithError(err).Error("カタログのエクスポートに失敗")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "エクスポートに失敗しました: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="trending_products.%s"`, ext))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// PreviewPrompt モデルを呼び出さずにプロンプトだけを返す
func (h *BlueprintHandler) PreviewPrompt(c *gin.Context) {
	var body models.BlueprintRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "リクエストの形式が正しくありません: " + err.Error()})
		return
	}
	req := body.AnalysisRequest()

	product, err := h.source.Current().Lookup(req.SelectedProduct)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": models.PromptPreviewResponse{
			Product: product.Name,
			Prompt:  services.BuildPrompt(product, req.IncludeCompetitors, req.IncludePricing),
		},
	})
}

// CreateBlueprint JSON APIからのトリガー
func (h *BlueprintHandler) CreateBlueprint(c *gin.Context) {
	if !h.configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":    false,
			"error_type": "configuration_missing",
			"error":      config.ConfigurationMissingMessage,
		})
		return
	}
	if isMaintenanceMode.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error_type": "maintenance", "error": maintenanceMessage})
		return
	}

	var body models.BlueprintRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "リクエストの形式が正しくありません: " + err.Error()})
		return
	}

	outcome := h.service.Compose(c.Request.Context(), body.AnalysisRequest())
	switch {
	case outcome.Kind == services.OutcomeSuccess:
		html, err := services.RenderMarkdown(outcome.Result.Markdown)
		if err != nil {
			logger.Log.WithError(err).Warn("Markdownの変換に失敗")
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    outcome.Result,
			"html":    html,
		})
	case errors.Is(outcome.Err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error_type": outcome.Kind, "error": outcome.Message})
	case outcome.Kind == services.OutcomeAuthenticationError:
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error_type": outcome.Kind, "error": outcome.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error_type": outcome.Kind, "error": outcome.Message})
	}
}
