package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownRenderer 生のHTMLはエスケープされる（goldmarkの既定）
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderMarkdown converts model output to HTML for the output region.
func RenderMarkdown(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("Markdownの変換に失敗: %w", err)
	}
	return template.HTML(buf.String()), nil
}
