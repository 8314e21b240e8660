package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gtm-blueprint-api/pkg/catalog"
	"gtm-blueprint-api/pkg/logger"
	"gtm-blueprint-api/pkg/models"
	"gtm-blueprint-api/pkg/openai"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	// DefaultModel 使用するモデル
	DefaultModel = "gpt-4o-mini"
	// Temperature サンプリング温度
	Temperature float32 = 0.4

	// BlueprintHeading 生成結果の見出し
	BlueprintHeading = "📝 AI GTM Blueprint"
	// AuthenticationErrorMessage 認証エラー時の固定文言
	AuthenticationErrorMessage = "❌ Authentication Error: Please check your OpenAI API key."
	// GenericErrorPrefix その他のエラー時の文言（後ろに元のエラーメッセージが続く）
	GenericErrorPrefix = "❌ An error occurred: "
)

// ChatCompleter is the text-generation service the composer talks to.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// CatalogSource supplies the catalog a trigger is resolved against.
type CatalogSource interface {
	Current() catalog.Catalog
}

// OutcomeKind 1回のトリガーの結果種別
type OutcomeKind string

const (
	OutcomeSuccess             OutcomeKind = "success"
	OutcomeAuthenticationError OutcomeKind = "authentication_error"
	OutcomeError               OutcomeKind = "error"
)

// Outcome is what the display surface shows for one trigger: either Result or Message, never both.
type Outcome struct {
	Kind    OutcomeKind
	Result  *models.BlueprintResult
	Message string
	Err     error
}

// BlueprintOptions BlueprintServiceの任意設定
type BlueprintOptions struct {
	Model string
	// RequestsPerMinute 0以下なら無制限
	RequestsPerMinute int
	Monitor           *MonitoringService
}

// BlueprintService GTMブループリント生成サービス
// 同時に実行される生成は常に1件のみです。
type BlueprintService struct {
	client  ChatCompleter
	catalog CatalogSource
	model   string
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	monitor *MonitoringService
}

// NewBlueprintService 新しいBlueprintServiceを作成
func NewBlueprintService(client ChatCompleter, source CatalogSource, opts BlueprintOptions) *BlueprintService {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}
	return &BlueprintService{
		client:  client,
		catalog: source,
		model:   model,
		sem:     semaphore.NewWeighted(1),
		limiter: limiter,
		monitor: opts.Monitor,
	}
}

// Catalog 現在のカタログ
func (s *BlueprintService) Catalog() catalog.Catalog {
	return s.catalog.Current()
}

// Prompt 選択された製品とトグルからプロンプトを組み立てます（モデルは呼び出しません）。
func (s *BlueprintService) Prompt(req models.AnalysisRequest) (string, error) {
	return promptFrom(s.catalog.Current(), req)
}

func promptFrom(c catalog.Catalog, req models.AnalysisRequest) (string, error) {
	product, err := c.Lookup(req.SelectedProduct)
	if err != nil {
		return "", err
	}
	return BuildPrompt(product, req.IncludeCompetitors, req.IncludePricing), nil
}

// Generate runs one compose-call cycle and returns the blueprint or the first error.
func (s *BlueprintService) Generate(ctx context.Context, req models.AnalysisRequest) (*models.BlueprintResult, error) {
	return s.GenerateFrom(ctx, s.catalog.Current(), req)
}

// GenerateFrom は指定されたカタログからプロンプトを組み立てて生成します。
// 画面に表示したカタログと同じものを渡すことで、表とプロンプトの内容が一致します。
func (s *BlueprintService) GenerateFrom(ctx context.Context, c catalog.Catalog, req models.AnalysisRequest) (*models.BlueprintResult, error) {
	prompt, err := promptFrom(c, req)
	if err != nil {
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("生成待ちが中断されました: %w", err)
	}
	defer s.sem.Release(1)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("レート制限の待機に失敗: %w", err)
	}

	resp, err := s.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    []openai.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: Temperature,
		N:           1,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("OpenAI からの応答が空です")
	}

	return &models.BlueprintResult{
		Product:  req.SelectedProduct,
		Model:    s.model,
		Heading:  BlueprintHeading,
		Markdown: resp.Choices[0].Message.Content,
		Usage: models.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Compose handles one trigger event: generate, classify, log and count the outcome.
func (s *BlueprintService) Compose(ctx context.Context, req models.AnalysisRequest) Outcome {
	return s.ComposeFrom(ctx, s.catalog.Current(), req)
}

// ComposeFrom is Compose against a catalog the caller already resolved for this trigger.
func (s *BlueprintService) ComposeFrom(ctx context.Context, c catalog.Catalog, req models.AnalysisRequest) Outcome {
	requestID := uuid.New().String()
	start := time.Now()
	entry := logger.Log.WithFields(logrus.Fields{
		"request_id":          requestID,
		"product":             req.SelectedProduct,
		"include_competitors": req.IncludeCompetitors,
		"include_pricing":     req.IncludePricing,
	})
	entry.Info("🚀 GTMブループリント生成を開始")

	result, err := s.GenerateFrom(ctx, c, req)
	outcome := ClassifyOutcome(result, err)
	if outcome.Result != nil {
		outcome.Result.RequestID = requestID
	}

	entry = entry.WithFields(logrus.Fields{
		"outcome":  outcome.Kind,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Error("❌ GTMブループリント生成に失敗")
	} else {
		entry.Info("✅ GTMブループリント生成完了")
	}

	if s.monitor != nil {
		s.monitor.RecordBlueprint(outcome.Kind)
	}
	return outcome
}

// ClassifyOutcome maps a generation result to what the operator sees.
func ClassifyOutcome(result *models.BlueprintResult, err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Kind: OutcomeSuccess, Result: result}
	case openai.IsAuthenticationError(err):
		return Outcome{Kind: OutcomeAuthenticationError, Message: AuthenticationErrorMessage, Err: err}
	default:
		return Outcome{Kind: OutcomeError, Message: GenericErrorPrefix + err.Error(), Err: err}
	}
}
