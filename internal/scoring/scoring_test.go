package scoring

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geo-analyzer/internal/model"
)

func promptsWithMentions(mentioned, total int) []model.TestPrompt {
	prompts := make([]model.TestPrompt, total)
	for i := range prompts {
		if i < mentioned {
			prompts[i].Response = model.ResponseMentioned
		} else {
			prompts[i].Response = model.ResponseNotMentioned
		}
	}
	return prompts
}

func TestGeoScore_FullMentions(t *testing.T) {
	calc := New(NoJitter{})
	class := model.Classification{Industry: "Technology", Geography: "US"}
	content := model.WebsiteContent{HasStructuredData: true}

	// 7/7 mentions: 6.0 + 1.0 + 0.5 + 0.4 + 0.3 = 8.2
	got := calc.GeoScore(class, promptsWithMentions(7, 7), content)
	assert.InDelta(t, 8.2, got, 0.001)
}

func TestGeoScore_ZeroMentionsGetsNoBonuses(t *testing.T) {
	calc := New(NoJitter{})
	class := model.Classification{Industry: "Technology", Geography: "US"}
	content := model.WebsiteContent{HasStructuredData: true}

	// 0/7: base 1.0 only; structured data, US, and industry bonuses are gated.
	got := calc.GeoScore(class, promptsWithMentions(0, 7), content)
	assert.InDelta(t, 1.0, got, 0.001)
}

func TestGeoScore_GlobalGeographyPartialCredit(t *testing.T) {
	calc := New(NoJitter{})
	class := model.Classification{Industry: "Manufacturing", Geography: "Global"}

	// Zero mentions: global still earns 0.2 instead of 0.8.
	got := calc.GeoScore(class, promptsWithMentions(0, 7), model.WebsiteContent{})
	assert.InDelta(t, 1.2, got, 0.001)

	// With mentions: 3/7*6 + 1.0 + 0.8 ≈ 4.37
	got = calc.GeoScore(class, promptsWithMentions(3, 7), model.WebsiteContent{})
	assert.InDelta(t, 4.4, got, 0.06)
}

func TestGeoScore_EmptyPromptsNeverNaN(t *testing.T) {
	calc := New(NewRandJitter(42))
	got := calc.GeoScore(model.Classification{Geography: "Global"}, nil, model.WebsiteContent{HasStructuredData: true})
	assert.False(t, math.IsNaN(got))
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 10.0)
}

func TestGeoScore_AlwaysInRange(t *testing.T) {
	calc := New(NewRandJitter(7))
	classes := []model.Classification{
		{Industry: "Technology", Geography: "Global"},
		{Industry: "Business Services", Geography: "US"},
		{},
	}
	for _, class := range classes {
		for mentions := 0; mentions <= 7; mentions++ {
			got := calc.GeoScore(class, promptsWithMentions(mentions, 7), model.WebsiteContent{HasStructuredData: true})
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 10.0)
			assert.False(t, math.IsNaN(got))
		}
	}
}

func TestBenchmarkScore_IndependentOfMentions(t *testing.T) {
	calc := New(NoJitter{})
	class := model.Classification{
		Industry:  "Technology",
		Market:    "Enterprise",
		Geography: "Global",
		Domain:    "Cybersecurity",
	}
	// Benchmark takes only the classification; two businesses in the same
	// bucket get the same value modulo jitter.
	assert.Equal(t, calc.BenchmarkScore(class), calc.BenchmarkScore(class))
}

func TestBenchmarkScore_ClampedBand(t *testing.T) {
	calc := New(NoJitter{})

	high := model.Classification{Industry: "Technology", Market: "Enterprise", Geography: "Global", Domain: "Cybersecurity"}
	// 6.0 * 1.15 * 1.08 * 1.12 * 1.10 ≈ 9.18 → clamped to 8.5
	assert.InDelta(t, 8.5, calc.BenchmarkScore(high), 0.001)

	low := model.Classification{Industry: "Business Services", Market: "SMB", Geography: "Europe", Domain: "Professional Services"}
	got := calc.BenchmarkScore(low)
	assert.GreaterOrEqual(t, got, 4.0)
	assert.LessOrEqual(t, got, 8.5)
}

func TestBenchmarkScore_UnknownKeysDefaultMultiplier(t *testing.T) {
	calc := New(NoJitter{})
	got := calc.BenchmarkScore(model.Classification{Industry: "Basket Weaving", Market: "Niche", Geography: "Mars", Domain: "Baskets"})
	assert.InDelta(t, 6.0, got, 0.001)
}

func TestJitterBounds(t *testing.T) {
	j := NewRandJitter(1)
	for i := 0; i < 1000; i++ {
		v := j.Sym(0.2)
		assert.GreaterOrEqual(t, v, -0.2)
		assert.LessOrEqual(t, v, 0.2)
	}
}

func TestLoadBenchmarkTables_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
benchmarks:
  industry:
    Technology: 2.0
`), 0o644))

	tables, err := LoadBenchmarkTables(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, tables.Industry.lookup("Technology"))
	// Tables absent from the file keep defaults.
	assert.Equal(t, 1.08, tables.Market.lookup("Enterprise"))
}

func TestLoadBenchmarkTables_MissingFileKeepsDefaults(t *testing.T) {
	tables, err := LoadBenchmarkTables("/nonexistent/benchmarks.yaml")
	assert.Error(t, err)
	assert.Equal(t, 1.15, tables.Industry.lookup("Technology"))
}
