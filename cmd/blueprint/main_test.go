package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	config "gtm-blueprint-api/configs"
	"gtm-blueprint-api/pkg/openai"
	"gtm-blueprint-api/pkg/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type echoCompleter struct {
	err error
}

func (e *echoCompleter) ChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &openai.ChatCompletionResponse{
		Choices: []openai.ChatChoice{{Message: openai.ChatMessage{Role: "assistant", Content: "Hello World"}}},
	}, nil
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func withCompleter(t *testing.T, c services.ChatCompleter) {
	t.Helper()
	orig := newCompleter
	newCompleter = func(*config.Config, string) (services.ChatCompleter, error) { return c, nil }
	t.Cleanup(func() { newCompleter = orig })
}

func TestProductsTable(t *testing.T) {
	out, err := execute(t, &config.Config{}, "products", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "PRODUCT")
	assert.Contains(t, out, "Plant-Based Protein")
	assert.Contains(t, out, "CompG, CompH")
}

func TestProductsXLSXRequiresOutput(t *testing.T) {
	_, err := execute(t, &config.Config{}, "products", "--format", "xlsx")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "products.xlsx")
	_, err = execute(t, &config.Config{}, "products", "--format", "xlsx", "-o", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(services.CatalogSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestPromptFlags(t *testing.T) {
	out, err := execute(t, &config.Config{}, "prompt", "--product", "EcoWater Bottle", "--no-pricing")
	require.NoError(t, err)
	assert.Contains(t, out, "Product: EcoWater Bottle")
	assert.Contains(t, out, "Ignore pricing insights.")
	assert.NotContains(t, out, "Ignore competitor mapping.")

	_, err = execute(t, &config.Config{}, "prompt", "--product", "Hoverboard")
	assert.Error(t, err)
}

func TestGenerateWithoutKey(t *testing.T) {
	withCompleter(t, &echoCompleter{})
	_, err := execute(t, &config.Config{}, "generate")
	require.Error(t, err)
	assert.Equal(t, config.ConfigurationMissingMessage, err.Error())
}

func TestGenerate(t *testing.T) {
	withCompleter(t, &echoCompleter{})
	out, err := execute(t, &config.Config{OpenAIAPIKey: "sk-test"}, "generate", "--product", "Fitness App Pro")
	require.NoError(t, err)
	assert.Contains(t, out, "📝 AI GTM Blueprint")
	assert.Contains(t, out, "Hello World")
}

func TestGenerateAuthenticationError(t *testing.T) {
	withCompleter(t, &echoCompleter{err: &openai.APIError{StatusCode: 401}})
	_, err := execute(t, &config.Config{OpenAIAPIKey: "bad"}, "generate")
	require.Error(t, err)
	assert.Equal(t, services.AuthenticationErrorMessage, err.Error())
}
