package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/geo-analyzer/internal/mention"
	"github.com/sells-group/geo-analyzer/internal/model"
	"github.com/sells-group/geo-analyzer/pkg/anthropic"
	"github.com/sells-group/geo-analyzer/pkg/perplexity"
)

// Prober answers a single probe question the way an AI answer engine would.
type Prober interface {
	Probe(ctx context.Context, question string) (string, model.TokenUsage, error)
}

// AnthropicProber answers probe questions with a Claude model.
type AnthropicProber struct {
	ai    anthropic.Client
	model string
}

// NewAnthropicProber creates an AnthropicProber.
func NewAnthropicProber(ai anthropic.Client, modelID string) *AnthropicProber {
	return &AnthropicProber{ai: ai, model: modelID}
}

func (p *AnthropicProber) Probe(ctx context.Context, question string) (string, model.TokenUsage, error) {
	resp, err := p.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: 1024,
		System: []anthropic.SystemBlock{
			{Text: "You are a helpful assistant answering a consumer question. Recommend specific companies and brands by name where relevant."},
		},
		Messages: []anthropic.Message{
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return "", model.TokenUsage{}, err
	}

	usage := model.TokenUsage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, usage, nil
}

// PerplexityProber answers probe questions with the Perplexity API.
type PerplexityProber struct {
	client perplexity.Client
}

// NewPerplexityProber creates a PerplexityProber.
func NewPerplexityProber(client perplexity.Client) *PerplexityProber {
	return &PerplexityProber{client: client}
}

func (p *PerplexityProber) Probe(ctx context.Context, question string) (string, model.TokenUsage, error) {
	text, usage, err := perplexity.Answer(ctx, p.client, question)
	if err != nil {
		return "", model.TokenUsage{}, err
	}
	return text, model.TokenUsage{
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
	}, nil
}

// ProbeOptions bounds probe fan-out.
type ProbeOptions struct {
	Concurrency  int
	ProbeTimeout time.Duration
	BatchTimeout time.Duration
}

// RunProbes sends every prompt to the prober and tags each with the mention
// outcome. A failed or timed-out probe is tagged as an error rather than
// failing the batch. The returned slice preserves prompt order.
func RunProbes(ctx context.Context, prober Prober, businessName string, prompts []model.TestPrompt, opts ProbeOptions) ([]model.TestPrompt, model.TokenUsage) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 30 * time.Second
	}

	batchCtx, cancel := context.WithTimeout(ctx, opts.BatchTimeout)
	defer cancel()

	out := make([]model.TestPrompt, len(prompts))
	copy(out, prompts)

	var mu sync.Mutex
	var totalUsage model.TokenUsage

	g, gCtx := errgroup.WithContext(batchCtx)
	g.SetLimit(opts.Concurrency)

	for i := range out {
		g.Go(func() error {
			probeCtx, probeCancel := context.WithTimeout(gCtx, opts.ProbeTimeout)
			defer probeCancel()

			answer, usage, err := prober.Probe(probeCtx, out[i].Prompt)
			if err != nil {
				zap.L().Warn("pipeline: probe failed",
					zap.String("type", out[i].Type),
					zap.Error(err))
				out[i].Response = model.ResponseError
				return nil
			}

			mu.Lock()
			totalUsage.Add(usage)
			mu.Unlock()

			if mention.Detect(businessName, answer).Mentioned {
				out[i].Response = model.ResponseMentioned
			} else {
				out[i].Response = model.ResponseNotMentioned
			}
			return nil
		})
	}
	_ = g.Wait()

	// Anything left untagged (batch timeout cut it off) counts as an error.
	for i := range out {
		if out[i].Response == "" {
			out[i].Response = model.ResponseError
		}
	}
	return out, totalUsage
}
