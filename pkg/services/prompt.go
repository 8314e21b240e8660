package services

import (
	"fmt"
	"strings"

	"gtm-blueprint-api/pkg/models"
)

const (
	promptPreamble = `You are a product strategist AI assistant.
The product launch details are:
`

	promptTasks = `
Tasks:
1. Provide a GTM launch strategy.
2. Suggest positioning and messaging.
3. Recommend pricing insights.
4. Map competitor moves if requested.
5. Highlight risks and mitigation.
Respond in markdown format with headings and bullet points.`

	// IgnoreCompetitorsInstruction is appended when competitor mapping is switched off.
	IgnoreCompetitorsInstruction = "Ignore competitor mapping."
	// IgnorePricingInstruction is appended when pricing insights are switched off.
	IgnorePricingInstruction = "Ignore pricing insights."
)

// SerializeProduct 製品レコードを1フィールド1行の "Key: value" 形式に変換
func SerializeProduct(p models.ProductRecord) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Product: %s\n", p.Name))
	sb.WriteString(fmt.Sprintf("Launch Date: %s\n", p.LaunchDate))
	sb.WriteString(fmt.Sprintf("Category: %s\n", p.Category))
	sb.WriteString(fmt.Sprintf("User Sentiment: %s\n", p.Sentiment))
	sb.WriteString(fmt.Sprintf("Competitors: %s\n", p.CompetitorList()))
	return sb.String()
}

// BuildPrompt builds the blueprint prompt for one product. The output depends only on its
// arguments.
func BuildPrompt(p models.ProductRecord, includeCompetitors, includePricing bool) string {
	prompt := promptPreamble + SerializeProduct(p) + promptTasks

	if !includeCompetitors {
		prompt += "\n" + IgnoreCompetitorsInstruction
	}
	if !includePricing {
		prompt += "\n" + IgnorePricingInstruction
	}
	return prompt
}
