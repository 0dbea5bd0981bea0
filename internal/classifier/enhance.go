package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/geo-analyzer/internal/model"
	"github.com/sells-group/geo-analyzer/pkg/anthropic"
)

const enhanceTimeout = 5 * time.Second

const enhanceSystemPrompt = `You classify businesses into a fixed taxonomy. Respond with a valid JSON object: {"industry": "...", "market": "...", "category": "...", "domain": "..."}. Use short, conventional labels (e.g. "Technology", "Enterprise", "Security Software", "Cybersecurity").`

const enhanceUserPrompt = `Business name: %s
Website: %s

Website content (may be empty):
%s`

// Enhanced wraps the rule-based classifier with a best-effort LLM pass.
// The LLM result is used when it parses cleanly; any failure or timeout
// falls back to the deterministic rules without surfacing an error.
type Enhanced struct {
	rules *RuleBased
	ai    anthropic.Client
	model string
	usage *model.TokenUsage
}

// NewEnhanced creates an Enhanced classifier. A nil client degrades to
// rules-only behavior.
func NewEnhanced(ai anthropic.Client, modelID string, usage *model.TokenUsage) *Enhanced {
	return &Enhanced{
		rules: NewRuleBased(),
		ai:    ai,
		model: modelID,
		usage: usage,
	}
}

// Classify tries the LLM first under a short timeout, keeping the
// rule-based geography either way, then falls back to the rules.
func (e *Enhanced) Classify(ctx context.Context, businessName, websiteURL, content string) model.Classification {
	ruled := e.rules.Classify(businessName, websiteURL, content)
	if e.ai == nil {
		return ruled
	}

	ctx, cancel := context.WithTimeout(ctx, enhanceTimeout)
	defer cancel()

	clipped := clipContent(content, 1000)

	resp, err := e.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 256,
		System:    []anthropic.SystemBlock{{Text: enhanceSystemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(enhanceUserPrompt, businessName, websiteURL, clipped)},
		},
	})
	if err != nil {
		zap.L().Warn("classifier: llm enhancement failed, using rules",
			zap.String("business", businessName),
			zap.Error(err),
		)
		return ruled
	}

	if e.usage != nil {
		e.usage.Add(model.TokenUsage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		})
	}

	parsed, ok := parseEnhanced(extractText(resp))
	if !ok {
		zap.L().Warn("classifier: llm enhancement unparseable, using rules",
			zap.String("business", businessName),
		)
		return ruled
	}

	// Geography stays rule-derived: the LLM sees too little regional signal.
	parsed.Geography = ruled.Geography
	return parsed
}

// parseEnhanced validates the LLM response shape. All four taxonomy fields
// must be non-empty.
func parseEnhanced(text string) (model.Classification, bool) {
	var c model.Classification
	if err := json.Unmarshal([]byte(cleanJSON(text)), &c); err != nil {
		return model.Classification{}, false
	}
	if c.Industry == "" || c.Market == "" || c.Category == "" || c.Domain == "" {
		return model.Classification{}, false
	}
	return c, true
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

// clipContent truncates content to at most max bytes without splitting a
// rune.
func clipContent(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
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

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
