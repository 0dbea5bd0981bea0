// Package scoring computes the observed GEO score and the classification
// peer benchmark.
package scoring

import (
	"math"
	"math/rand"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// Jitter is the injectable randomness source used for the small
// presentation jitter added to both scores. Tests inject a fixed source.
type Jitter interface {
	// Sym returns a value in [-amplitude, +amplitude].
	Sym(amplitude float64) float64
}

// randJitter draws from math/rand.
type randJitter struct {
	rng *rand.Rand
}

// NewRandJitter creates a Jitter backed by the given seed.
func NewRandJitter(seed int64) Jitter {
	return &randJitter{rng: rand.New(rand.NewSource(seed))}
}

func (j *randJitter) Sym(amplitude float64) float64 {
	return (j.rng.Float64()*2 - 1) * amplitude
}

// NoJitter returns 0 always; used in tests and deterministic runs.
type NoJitter struct{}

func (NoJitter) Sym(float64) float64 { return 0 }

// highVisibilityIndustries are buckets LLMs talk about disproportionately
// often; an earned mention there gets a small extra credit.
var highVisibilityIndustries = map[string]bool{
	"Technology":      true,
	"Food & Beverage": true,
}

// Calculator computes both scores. Zero value is not usable: construct
// with New.
type Calculator struct {
	jitter     Jitter
	benchmarks BenchmarkTables
}

// New creates a Calculator with the default benchmark tables.
func New(jitter Jitter) *Calculator {
	return &Calculator{jitter: jitter, benchmarks: DefaultBenchmarkTables()}
}

// NewWithTables creates a Calculator with overridden benchmark tables.
func NewWithTables(jitter Jitter, tables BenchmarkTables) *Calculator {
	return &Calculator{jitter: jitter, benchmarks: tables}
}

// GeoScore computes the observed 0-10 visibility score.
//
// The mention rate earns up to 6 points, plus a fixed 1.0 participation
// credit. Signal bonuses (structured data, geography, high-visibility
// industry) are gated on at least one real mention so an invisible
// business cannot collect them. Result is jittered ±0.2, clamped to
// [0,10], rounded to one decimal. Never NaN, even with no prompts.
func (c *Calculator) GeoScore(class model.Classification, prompts []model.TestPrompt, content model.WebsiteContent) float64 {
	rate := model.MentionRate(prompts)

	score := rate*6 + 1.0

	if content.HasStructuredData && rate > 0 {
		score += 0.5
	}

	switch class.Geography {
	case "Global":
		if rate > 0 {
			score += 0.8
		} else {
			score += 0.2
		}
	case "US":
		if rate > 0 {
			score += 0.4
		}
	}

	if highVisibilityIndustries[class.Industry] && rate > 0 {
		score += 0.3
	}

	score += c.jitter.Sym(0.2)

	return round1(clamp(score, 0, 10))
}

// BenchmarkScore estimates what a typical peer in this classification
// bucket scores. Pure function of the classification (plus jitter):
// baseline 6.0 scaled by the industry, market, geography, and domain
// multiplier tables, clamped to [4.0, 8.5].
func (c *Calculator) BenchmarkScore(class model.Classification) float64 {
	score := 6.0
	score *= c.benchmarks.Industry.lookup(class.Industry)
	score *= c.benchmarks.Market.lookup(class.Market)
	score *= c.benchmarks.Geography.lookup(class.Geography)
	score *= c.benchmarks.Domain.lookup(class.Domain)

	score = clamp(score, 4.0, 8.5)
	score += c.jitter.Sym(0.2)

	return round1(clamp(score, 0, 10))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
