package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	config "gtm-blueprint-api/configs"
	"gtm-blueprint-api/pkg/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	// テスト環境の設定
	gin.SetMode(gin.TestMode)

	code := m.Run()

	os.Exit(code)
}

func TestApplicationSetup(t *testing.T) {
	t.Setenv("SECRETS_FILE", "does-not-exist.yaml")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := config.LoadConfig()
	assert.NotNil(t, cfg, "Config should not be nil")

	deps := router.NewDependencies(cfg)
	assert.NotNil(t, deps.Blueprint, "BlueprintService should not be nil")
	assert.NotNil(t, router.New(deps), "Router should not be nil")
}

func TestRouterSetup(t *testing.T) {
	t.Setenv("SECRETS_FILE", "does-not-exist.yaml")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("API_KEY", "")

	r := router.New(router.NewDependencies(config.LoadConfig()))

	// ヘルスチェックのテスト
	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Hello APIのテスト
	req, _ = http.NewRequest("GET", "/api/v1/hello", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// APIキー未設定でも画面は応答する
	req, _ = http.NewRequest("GET", "/", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
