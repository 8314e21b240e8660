package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL OpenAI APIのデフォルトエンドポイント
const DefaultBaseURL = "https://api.openai.com/v1"

// ErrMissingAPIKey APIキーが設定されていない
var ErrMissingAPIKey = errors.New("API key が設定されていません")

// Client はOpenAI互換のChat Completions APIへのリクエストを管理します。
// タイムアウトやリトライは行いません。キャンセルは呼び出し側のcontextに任せます。
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient 新しいクライアントを作成
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// WithHTTPClient 使用するhttp.Clientを差し替えます（テスト用）。
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// --- データ構造定義 ---

// ChatMessage チャットメッセージ
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest チャット補完リクエスト
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	N           int           `json:"n,omitempty"`
}

// ChatChoice 補完候補
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage トークン使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse チャット補完レスポンス
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// APIError is returned for any non-2xx response from the service.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAI API エラー (status: %d): %s", e.StatusCode, e.Message)
}

// IsAuthenticationError はサービスが認証情報を拒否したかどうかを判定します。
func IsAuthenticationError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.Code == "invalid_api_key"
}

// --- メソッド定義 ---

// ChatCompletion チャット補完を実行
func (c *Client) ChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var response ChatCompletionResponse
	if err := c.doRequest(ctx, c.baseURL+"/chat/completions", request, &response); err != nil {
		return nil, fmt.Errorf("OpenAI API 呼び出しに失敗: %w", err)
	}
	return &response, nil
}

// doRequest はHTTPリクエストの実行と基本的なレスポンス処理を行う共通メソッドです。
func (c *Client) doRequest(ctx context.Context, url string, requestData interface{}, responseData interface{}) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	requestBody, err := json.Marshal(requestData)
	if err != nil {
		return fmt.Errorf("リクエストのJSON化に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの実行に失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			apiErr.Type = errorResp.Error.Type
			apiErr.Code = errorResp.Error.Code
			apiErr.Message = errorResp.Error.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, responseData); err != nil {
		return fmt.Errorf("レスポンスのJSON解析に失敗: %w", err)
	}
	return nil
}
