package pipeline

import (
	"context"
	"strings"

	"github.com/sells-group/geo-analyzer/pkg/anthropic"
	"github.com/sells-group/geo-analyzer/pkg/perplexity"
)

// Compile-time interface checks.
var (
	_ anthropic.Client  = (*StubAnthropicClient)(nil)
	_ perplexity.Client = (*StubPerplexityClient)(nil)
)

// StubAnthropicClient implements anthropic.Client with canned responses
// for running the pipeline without an API key.
type StubAnthropicClient struct{}

// CreateMessage implements anthropic.Client.
func (s *StubAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	content := ""
	for _, m := range req.Messages {
		content += m.Content
	}
	for _, sys := range req.System {
		content += sys.Text
	}
	lower := strings.ToLower(content)

	var responseText string
	switch {
	case strings.Contains(lower, "classify"):
		responseText = `{"industry": "Technology", "market": "Enterprise", "category": "SaaS", "domain": "Cloud Software"}`
	case strings.Contains(lower, "json array"):
		responseText = `[
			{"type": "recommendation", "prompt": "What software tools do you recommend for small teams?"},
			{"type": "comparison", "prompt": "Compare the leading cloud software providers"},
			{"type": "best_of", "prompt": "What are the best SaaS platforms available today?"},
			{"type": "problem_solving", "prompt": "How can a business automate its workflows?"},
			{"type": "alternatives", "prompt": "What alternatives exist to the major cloud platforms?"},
			{"type": "local", "prompt": "Which software companies serve enterprise customers well?"},
			{"type": "general", "prompt": "What should I look for in business software?"}
		]`
	default:
		responseText = "There are many good options, including Example Corp and several well-known providers."
	}

	return &anthropic.MessageResponse{
		ID:         "stub-msg-001",
		Model:      req.Model,
		Content:    []anthropic.ContentBlock{{Type: "text", Text: responseText}},
		StopReason: "end_turn",
		Usage: anthropic.TokenUsage{
			InputTokens:  150,
			OutputTokens: 50,
		},
	}, nil
}

// StubPerplexityClient implements perplexity.Client with canned responses.
type StubPerplexityClient struct{}

// ChatCompletion implements perplexity.Client.
func (s *StubPerplexityClient) ChatCompletion(_ context.Context, _ perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	return &perplexity.ChatCompletionResponse{
		ID: "stub-pplx-001",
		Choices: []perplexity.Choice{
			{
				Index: 0,
				Message: perplexity.Message{
					Role:    "assistant",
					Content: "Several providers stand out in this space, including Example Corp.",
				},
			},
		},
		Usage: perplexity.Usage{
			PromptTokens:     100,
			CompletionTokens: 200,
		},
	}, nil
}
