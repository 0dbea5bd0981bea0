package pipeline

import (
	"math/rand"

	"github.com/sells-group/geo-analyzer/internal/classifier"
	"github.com/sells-group/geo-analyzer/internal/insight"
	"github.com/sells-group/geo-analyzer/internal/model"
	"github.com/sells-group/geo-analyzer/internal/prompts"
	"github.com/sells-group/geo-analyzer/internal/scoring"
)

// MockResult produces a plausible analysis without calling any external
// API. Used when the usage limiter denies a live run. The rand source is
// injected so tests can fix the outcome.
func MockResult(business model.Business, content model.WebsiteContent, scorer *scoring.Calculator, rnd *rand.Rand) *model.AnalysisResult {
	class := classifier.NewRuleBased().Classify(business.Name, business.URL, content.Content)
	testPrompts := prompts.Generate(class)

	// Simulate probe outcomes with a mention count drawn at random.
	mentions := rnd.Intn(len(testPrompts) + 1)
	for i := range testPrompts {
		if i < mentions {
			testPrompts[i].Response = model.ResponseMentioned
		} else {
			testPrompts[i].Response = model.ResponseNotMentioned
		}
	}

	geoScore := scorer.GeoScore(class, testPrompts, content)
	benchmark := scorer.BenchmarkScore(class)
	ins := insight.Generate(class, testPrompts, geoScore, content.HasStructuredData)

	return &model.AnalysisResult{
		BusinessName:      business.Name,
		WebsiteURL:        business.URL,
		Classification:    class,
		TestPrompts:       testPrompts,
		GeoScore:          geoScore,
		BenchmarkScore:    benchmark,
		HasStructuredData: content.HasStructuredData,
		LLMMentions:       model.CountMentions(testPrompts),
		Strengths:         ins.Strengths,
		Gaps:              ins.Gaps,
		Recommendations:   ins.Recommendations,
		Mocked:            true,
	}
}
