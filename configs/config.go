package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gtm-blueprint-api/pkg/logger"
)

// ErrConfigurationMissing OpenAI APIキーがどこにも設定されていない
var ErrConfigurationMissing = errors.New("OpenAI API key not found")

// ConfigurationMissingMessage 画面とCLIに表示する設定エラーの固定文言
const ConfigurationMissingMessage = "❌ OpenAI API key not found. Please set it in `configs/secrets.yaml` or as environment variable."

// Config holds the application configuration
type Config struct {
	Port          string
	Environment   string
	LogLevel      string
	LogFile       string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	SecretsFile   string
	CatalogSeed   int64
	CatalogFresh  bool
	BlueprintRPM  int
	APIKey        string
	AdminUsername string
	AdminPassword string
}

// LoadConfig loads configuration from environment variables.
// The OpenAI credential is taken from the secrets store first and from OPENAI_API_KEY second.
func LoadConfig() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		SecretsFile:   getEnv("SECRETS_FILE", "configs/secrets.yaml"),
		CatalogSeed:   getEnvInt64("CATALOG_SEED", 0),
		CatalogFresh:  getEnvBool("CATALOG_REFRESH", false),
		BlueprintRPM:  int(getEnvInt64("BLUEPRINT_RPM", 0)),
		APIKey:        getEnv("API_KEY", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	// シークレットストア → 環境変数の優先順
	secrets, err := LoadSecrets(cfg.SecretsFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		// 壊れたシークレットファイルは環境変数にフォールバックする前に通知
		logger.Log.WithError(err).WithField("path", cfg.SecretsFile).Warn("⚠️ シークレットファイルを読み込めません。OPENAI_API_KEY を使用します")
	}
	if err == nil && secrets.OpenAIAPIKey != "" {
		cfg.OpenAIAPIKey = secrets.OpenAIAPIKey
	} else {
		cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	}

	return cfg
}

// Validate 必須設定が揃っているかを確認
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return ErrConfigurationMissing
	}
	return nil
}

// IsProduction 本番環境かどうか
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}
