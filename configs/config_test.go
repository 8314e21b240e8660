package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gtm-blueprint-api/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLoadConfig(t *testing.T) {
	// テスト用の環境変数を設定
	testCases := map[string]string{
		"PORT":            "9090",
		"ENVIRONMENT":     "test",
		"OPENAI_API_KEY":  "env-key",
		"OPENAI_BASE_URL": "https://proxy.example.com/v1",
		"OPENAI_MODEL":    "gpt-4o-mini",
		"SECRETS_FILE":    filepath.Join(t.TempDir(), "missing.yaml"),
		"CATALOG_SEED":    "42",
		"CATALOG_REFRESH": "true",
		"BLUEPRINT_RPM":   "6",
	}
	for key, value := range testCases {
		t.Setenv(key, value)
	}

	cfg := LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}
	if cfg.Environment != "test" {
		t.Errorf("Expected Environment to be 'test', got '%s'", cfg.Environment)
	}
	if cfg.OpenAIAPIKey != "env-key" {
		t.Errorf("Expected OpenAIAPIKey to be 'env-key', got '%s'", cfg.OpenAIAPIKey)
	}
	if cfg.OpenAIBaseURL != "https://proxy.example.com/v1" {
		t.Errorf("Expected OpenAIBaseURL to be 'https://proxy.example.com/v1', got '%s'", cfg.OpenAIBaseURL)
	}
	if cfg.CatalogSeed != 42 {
		t.Errorf("Expected CatalogSeed to be 42, got %d", cfg.CatalogSeed)
	}
	if !cfg.CatalogFresh {
		t.Error("Expected CatalogFresh to be true")
	}
	if cfg.BlueprintRPM != 6 {
		t.Errorf("Expected BlueprintRPM to be 6, got %d", cfg.BlueprintRPM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected config to be valid, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	vars := []string{
		"PORT", "ENVIRONMENT", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"OPENAI_MODEL", "CATALOG_SEED", "CATALOG_REFRESH", "BLUEPRINT_RPM",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Expected default Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Expected default Environment to be 'development', got '%s'", cfg.Environment)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("Expected default OpenAIModel to be 'gpt-4o-mini', got '%s'", cfg.OpenAIModel)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("Expected default OpenAIBaseURL, got '%s'", cfg.OpenAIBaseURL)
	}
	if cfg.CatalogSeed != 0 || cfg.CatalogFresh || cfg.BlueprintRPM != 0 {
		t.Errorf("Unexpected catalog/rate defaults: %+v", cfg)
	}
}

func TestValidateMissingKey(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "   "}
	if err := cfg.Validate(); !errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("Expected ErrConfigurationMissing, got %v", err)
	}
}

func TestSecretsFileTakesPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	if err := os.WriteFile(path, []byte("openai_api_key: \" file-key \"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SECRETS_FILE", path)
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg := LoadConfig()
	if cfg.OpenAIAPIKey != "file-key" {
		t.Errorf("Expected secrets file key 'file-key', got '%s'", cfg.OpenAIAPIKey)
	}
}

func TestEmptySecretsFileFallsBackToEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	if err := os.WriteFile(path, []byte("openai_api_key: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SECRETS_FILE", path)
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg := LoadConfig()
	if cfg.OpenAIAPIKey != "env-key" {
		t.Errorf("Expected env key 'env-key', got '%s'", cfg.OpenAIAPIKey)
	}
}

func TestLoadSecretsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	if err := os.WriteFile(path, []byte("openai_api_key: [unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSecrets(path); err == nil {
		t.Error("Expected YAML parse error")
	}
}

func TestMalformedSecretsFileIsLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	if err := os.WriteFile(path, []byte("openai_api_key: [unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SECRETS_FILE", path)
	t.Setenv("OPENAI_API_KEY", "env-key")

	hook := test.NewLocal(logger.Log)
	defer hook.Reset()

	cfg := LoadConfig()
	if cfg.OpenAIAPIKey != "env-key" {
		t.Errorf("Expected env key 'env-key', got '%s'", cfg.OpenAIAPIKey)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("Expected a warning for the malformed secrets file, got %v", entry)
	}
	if entry.Data["path"] != path {
		t.Errorf("Expected path field '%s', got '%v'", path, entry.Data["path"])
	}
}

func TestMissingSecretsFileIsNotLogged(t *testing.T) {
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("OPENAI_API_KEY", "env-key")

	hook := test.NewLocal(logger.Log)
	defer hook.Reset()

	LoadConfig()
	if len(hook.AllEntries()) != 0 {
		t.Errorf("Expected no log entries for a missing secrets file, got %d", len(hook.AllEntries()))
	}
}
