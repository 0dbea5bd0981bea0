// Package pipeline orchestrates a full visibility analysis: website
// content, classification, probe prompts, mention probes, scores, and
// insights.
package pipeline

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/geo-analyzer/internal/classifier"
	"github.com/sells-group/geo-analyzer/internal/config"
	"github.com/sells-group/geo-analyzer/internal/cost"
	"github.com/sells-group/geo-analyzer/internal/insight"
	"github.com/sells-group/geo-analyzer/internal/model"
	"github.com/sells-group/geo-analyzer/internal/prompts"
	"github.com/sells-group/geo-analyzer/internal/scoring"
	"github.com/sells-group/geo-analyzer/internal/store"
	"github.com/sells-group/geo-analyzer/internal/usage"
	"github.com/sells-group/geo-analyzer/internal/webcontent"
	"github.com/sells-group/geo-analyzer/pkg/anthropic"
)

// Pipeline runs analyses end to end and persists the results.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	ai       anthropic.Client
	prober   Prober
	fetcher  webcontent.Fetcher
	usage    usage.Checker
	scorer   *scoring.Calculator
	costCalc *cost.Calculator

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	aiClient anthropic.Client,
	prober Prober,
	fetcher webcontent.Fetcher,
	checker usage.Checker,
	scorer *scoring.Calculator,
) *Pipeline {
	seed := cfg.Analyze.DeterministicSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rates := cfg.Pricing
	if len(rates.Anthropic) == 0 {
		rates.Anthropic = cost.DefaultRates().Anthropic
	}
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		ai:       aiClient,
		prober:   prober,
		fetcher:  fetcher,
		usage:    checker,
		scorer:   scorer,
		costCalc: cost.NewCalculator(rates),
		rnd:      rand.New(rand.NewSource(seed)),
	}
}

// Run executes a full analysis for one business. Stage failures degrade to
// deterministic fallbacks; the returned error covers persistence only.
func (p *Pipeline) Run(ctx context.Context, business model.Business) (*model.Analysis, error) {
	log := zap.L().With(zap.String("business", business.Name), zap.String("url", business.URL))
	log.Info("pipeline: starting analysis")

	analysis, err := p.store.CreateAnalysis(ctx, business)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create analysis")
	}

	setStatus := func(status model.AnalysisStatus) {
		if statusErr := p.store.UpdateAnalysisStatus(ctx, analysis.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}
	setStatus(model.AnalysisStatusRunning)

	var result *model.AnalysisResult
	if p.usage.Allowed() {
		result = p.runLive(ctx, business, log)
	} else {
		log.Info("pipeline: usage limit reached, producing mocked result")
		p.mu.Lock()
		result = MockResult(business, model.WebsiteContent{}, p.scorer, p.rnd)
		p.mu.Unlock()
	}

	if saveErr := p.store.UpdateAnalysisResult(ctx, analysis.ID, result); saveErr != nil {
		setStatus(model.AnalysisStatusFailed)
		return nil, eris.Wrap(saveErr, "pipeline: save result")
	}

	analysis.Status = model.AnalysisStatusCompleted
	analysis.Result = result

	log.Info("pipeline: analysis complete",
		zap.String("analysis_id", analysis.ID),
		zap.Float64("geo_score", result.GeoScore),
		zap.Float64("benchmark_score", result.BenchmarkScore),
		zap.Int("llm_mentions", result.LLMMentions),
		zap.Bool("mocked", result.Mocked),
	)
	return analysis, nil
}

// runLive performs the real analysis against external APIs.
func (p *Pipeline) runLive(ctx context.Context, business model.Business, log *zap.Logger) *model.AnalysisResult {
	var tally model.TokenUsage

	content := p.fetchContent(ctx, business.URL, log)

	enhanced := classifier.NewEnhanced(p.ai, p.cfg.Anthropic.Model, &tally)
	class := enhanced.Classify(ctx, business.Name, business.URL, content.Content)

	gen := prompts.NewGenerator(p.ai, p.cfg.Anthropic.Model, &tally)
	testPrompts := gen.Generate(ctx, class)

	testPrompts, probeUsage := RunProbes(ctx, p.prober, business.Name, testPrompts, ProbeOptions{
		Concurrency:  p.cfg.Analyze.ProbeConcurrency,
		ProbeTimeout: time.Duration(p.cfg.Analyze.ProbeTimeoutSecs) * time.Second,
		BatchTimeout: time.Duration(p.cfg.Analyze.BatchTimeoutSecs) * time.Second,
	})
	tally.Add(probeUsage)

	geoScore := p.scorer.GeoScore(class, testPrompts, content)
	benchmark := p.scorer.BenchmarkScore(class)
	ins := insight.Generate(class, testPrompts, geoScore, content.HasStructuredData)

	p.recordCost(tally, len(testPrompts), log)

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
	}
}

// fetchContent returns cached website content when fresh, otherwise fetches
// and caches it. Any failure degrades to empty content.
func (p *Pipeline) fetchContent(ctx context.Context, websiteURL string, log *zap.Logger) model.WebsiteContent {
	if websiteURL == "" {
		return model.WebsiteContent{}
	}

	if cached, err := p.store.GetCachedContent(ctx, websiteURL); err != nil {
		log.Warn("pipeline: content cache lookup failed", zap.Error(err))
	} else if cached != nil {
		return *cached
	}

	fetchTimeout := time.Duration(p.cfg.Analyze.FetchTimeoutSecs) * time.Second
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	content, err := p.fetcher.Fetch(fetchCtx, websiteURL)
	if err != nil {
		log.Warn("pipeline: website fetch failed", zap.Error(err))
		return model.WebsiteContent{}
	}

	ttl := time.Duration(p.cfg.Analyze.ContentTTLHours) * time.Hour
	if ttl > 0 {
		if cacheErr := p.store.SetCachedContent(ctx, websiteURL, content, ttl); cacheErr != nil {
			log.Warn("pipeline: content cache write failed", zap.Error(cacheErr))
		}
	}
	return content
}

// recordCost charges this run against the usage budget.
func (p *Pipeline) recordCost(tally model.TokenUsage, probeCount int, log *zap.Logger) {
	probeQueries := 0
	if p.cfg.Analyze.ProbeEngine == "perplexity" {
		probeQueries = probeCount
	}
	runCost := p.costCalc.Analysis(p.cfg.Anthropic.Model, tally.InputTokens, tally.OutputTokens, probeQueries)
	p.usage.Record(runCost)

	log.Debug("pipeline: run cost recorded",
		zap.Float64("cost_usd", runCost),
		zap.Int("input_tokens", tally.InputTokens),
		zap.Int("output_tokens", tally.OutputTokens),
	)
}
