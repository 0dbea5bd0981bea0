package prompts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/geo-analyzer/internal/model"
	"github.com/sells-group/geo-analyzer/pkg/anthropic"
)

const generateSystemPrompt = `You write test questions that measure whether an AI assistant would organically mention a business when answering. Given a business classification, produce exactly 7 natural-language questions a real user might ask. Never name any specific company in a question. Respond with a valid JSON array of exactly 7 objects: [{"type": "<short label>", "prompt": "<question>"}].`

const generateUserPrompt = `Classification:
  Industry: %s
  Market: %s
  Geography: %s
  Category: %s
  Domain: %s

Write the 7 questions.`

// Generator produces the probe prompt set, preferring the external LLM and
// falling back to the per-domain templates on any failure.
type Generator struct {
	ai    anthropic.Client
	model string
	usage *model.TokenUsage
}

// NewGenerator creates a Generator. A nil client always uses templates.
func NewGenerator(ai anthropic.Client, modelID string, usage *model.TokenUsage) *Generator {
	return &Generator{ai: ai, model: modelID, usage: usage}
}

// Generate returns exactly PromptCount prompts for the classification. The
// business name is never passed to the LLM: a question that names the
// business would leak the answer into the probe.
func (g *Generator) Generate(ctx context.Context, c model.Classification) []model.TestPrompt {
	if g.ai == nil {
		return Generate(c)
	}

	resp, err := g.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: 1024,
		System:    []anthropic.SystemBlock{{Text: generateSystemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(generateUserPrompt, c.Industry, c.Market, c.Geography, c.Category, c.Domain)},
		},
	})
	if err != nil {
		zap.L().Warn("prompts: external generation failed, using templates", zap.Error(err))
		return Generate(c)
	}

	if g.usage != nil {
		g.usage.Add(model.TokenUsage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		})
	}

	generated, ok := parsePromptArray(extractText(resp))
	if !ok {
		zap.L().Warn("prompts: external generation invalid, using templates")
		return Generate(c)
	}

	return generated
}

// parsePromptArray validates the untrusted LLM response: it must be a JSON
// array of exactly PromptCount objects, each with non-empty type and prompt.
func parsePromptArray(text string) ([]model.TestPrompt, bool) {
	var items []model.TestPrompt
	if err := json.Unmarshal([]byte(cleanJSONArray(text)), &items); err != nil {
		return nil, false
	}
	if len(items) != PromptCount {
		return nil, false
	}
	for _, p := range items {
		if strings.TrimSpace(p.Type) == "" || strings.TrimSpace(p.Prompt) == "" {
			return nil, false
		}
	}
	// Drop any response tags the model invented.
	for i := range items {
		items[i].Response = ""
	}
	return items, true
}

// extractText concatenates all text content blocks from a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// cleanJSONArray extracts a JSON array from text that may carry markdown
// code fences or surrounding prose.
func cleanJSONArray(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
