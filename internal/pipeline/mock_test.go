package pipeline

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geo-analyzer/internal/model"
	"github.com/sells-group/geo-analyzer/internal/scoring"
)

func TestMockResult(t *testing.T) {
	scorer := scoring.New(scoring.NoJitter{})
	rnd := rand.New(rand.NewSource(7))

	got := MockResult(model.Business{Name: "Coca-Cola", URL: "https://coca-cola.com"}, model.WebsiteContent{}, scorer, rnd)

	assert.True(t, got.Mocked)
	assert.Equal(t, "Coca-Cola", got.BusinessName)
	assert.Equal(t, "Food & Beverage", got.Classification.Industry)
	assert.Len(t, got.TestPrompts, 7)
	assert.Equal(t, model.CountMentions(got.TestPrompts), got.LLMMentions)
	assert.GreaterOrEqual(t, got.GeoScore, 0.0)
	assert.LessOrEqual(t, got.GeoScore, 10.0)
	assert.GreaterOrEqual(t, got.BenchmarkScore, 4.0)
	assert.LessOrEqual(t, got.BenchmarkScore, 8.5)
	assert.NotEmpty(t, got.Recommendations)
}

func TestMockResultDeterministicWithSeed(t *testing.T) {
	scorer := scoring.New(scoring.NoJitter{})
	biz := model.Business{Name: "Acme"}

	a := MockResult(biz, model.WebsiteContent{}, scorer, rand.New(rand.NewSource(3)))
	b := MockResult(biz, model.WebsiteContent{}, scorer, rand.New(rand.NewSource(3)))

	assert.Equal(t, a.GeoScore, b.GeoScore)
	assert.Equal(t, a.LLMMentions, b.LLMMentions)
}

func TestAnthropicProber(t *testing.T) {
	p := NewAnthropicProber(&StubAnthropicClient{}, "claude-haiku-4-5-20251001")

	answer, usage, err := p.Probe(context.Background(), "What are the best widget makers?")
	require.NoError(t, err)
	assert.Contains(t, answer, "Example Corp")
	assert.Equal(t, 150, usage.InputTokens)
	assert.Equal(t, 50, usage.OutputTokens)
}

func TestPerplexityProber(t *testing.T) {
	p := NewPerplexityProber(&StubPerplexityClient{})

	answer, usage, err := p.Probe(context.Background(), "What are the best widget makers?")
	require.NoError(t, err)
	assert.Contains(t, answer, "Example Corp")
	assert.Equal(t, 100, usage.InputTokens)
	assert.Equal(t, 200, usage.OutputTokens)
}
