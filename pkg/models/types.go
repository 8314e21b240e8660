package models

import "strings"

// Sentiment represents the user sentiment shown for a trending product.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Sentiments lists every sentiment value in draw order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// ProductRecord represents a single row of the trending product table.
type ProductRecord struct {
	Name        string    `json:"product"`
	LaunchDate  string    `json:"launch_date"` // YYYY-MM-DD
	Category    string    `json:"category"`
	Sentiment   Sentiment `json:"user_sentiment"`
	Competitors []string  `json:"competitors"`
}

// CompetitorList はテーブル表示やプロンプトで使うカンマ区切りの競合一覧を返します。
func (p ProductRecord) CompetitorList() string {
	return strings.Join(p.Competitors, ", ")
}

// AnalysisRequest is the trigger payload: one selected product and two toggles.
type AnalysisRequest struct {
	SelectedProduct    string `json:"selected_product"`
	IncludeCompetitors bool   `json:"include_competitors"`
	IncludePricing     bool   `json:"include_pricing"`
}

// BlueprintRequest represents an incoming blueprint request on the JSON API.
// 省略されたトグルはtrueとして扱います（画面のチェックボックスの初期値と同じ）。
type BlueprintRequest struct {
	ProductName        string `json:"product_name" binding:"required"`
	IncludeCompetitors *bool  `json:"include_competitors,omitempty"`
	IncludePricing     *bool  `json:"include_pricing,omitempty"`
}

// AnalysisRequest BlueprintRequestをAnalysisRequestに変換
func (r BlueprintRequest) AnalysisRequest() AnalysisRequest {
	return AnalysisRequest{
		SelectedProduct:    r.ProductName,
		IncludeCompetitors: r.IncludeCompetitors == nil || *r.IncludeCompetitors,
		IncludePricing:     r.IncludePricing == nil || *r.IncludePricing,
	}
}

// Usage token usage reported by the model service
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// BlueprintResult is the generated GTM blueprint for one trigger. It is never persisted.
type BlueprintResult struct {
	RequestID string `json:"request_id"`
	Product   string `json:"product"`
	Model     string `json:"model"`
	Heading   string `json:"heading"`
	Markdown  string `json:"markdown"`
	Usage     Usage  `json:"usage"`
}

// PromptPreviewResponse represents the response of the prompt preview API
type PromptPreviewResponse struct {
	Product string `json:"product"`
	Prompt  string `json:"prompt"`
}
