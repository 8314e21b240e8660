package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("## Launch Plan\n\n- Beta\n- GA")
	require.NoError(t, err)

	assert.Contains(t, string(html), "<h2>Launch Plan</h2>")
	assert.Contains(t, string(html), "<li>Beta</li>")
}

func TestRenderMarkdownPlainText(t *testing.T) {
	html, err := RenderMarkdown("Hello World")
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello World</p>", strings.TrimSpace(string(html)))
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	html, err := RenderMarkdown("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
}
