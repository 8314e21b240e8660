package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Secrets はsecrets.yamlの構造を定義
type Secrets struct {
	OpenAIAPIKey string `yaml:"openai_api_key"`
}

// LoadSecrets はYAMLファイルからシークレットを読み込む
func LoadSecrets(path string) (*Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("シークレットファイルの読み込みに失敗: %w", err)
	}

	var secrets Secrets
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}
	secrets.OpenAIAPIKey = strings.TrimSpace(secrets.OpenAIAPIKey)

	return &secrets, nil
}
