package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/geo-analyzer/internal/pipeline"
	"github.com/sells-group/geo-analyzer/internal/scoring"
	"github.com/sells-group/geo-analyzer/internal/store"
	"github.com/sells-group/geo-analyzer/internal/usage"
	"github.com/sells-group/geo-analyzer/internal/webcontent"
	anthropicpkg "github.com/sells-group/geo-analyzer/pkg/anthropic"
	"github.com/sells-group/geo-analyzer/pkg/perplexity"
)

// pipelineEnv holds the initialized store and pipeline used by the
// analyze/serve/import commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Usage    usage.Checker
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "geo.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, API clients, scorer, and usage limiter.
// Callers should defer env.Close(). Missing API keys fall back to stub
// clients so the pipeline stays runnable offline.
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var aiClient anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		aiClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Warn("GEO_ANTHROPIC_KEY not set, using stub anthropic client")
		aiClient = &pipeline.StubAnthropicClient{}
	}

	var prober pipeline.Prober
	switch cfg.Analyze.ProbeEngine {
	case "perplexity":
		var pplxClient perplexity.Client
		if cfg.Perplexity.Key != "" {
			pplxClient = perplexity.NewClient(cfg.Perplexity.Key,
				perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
				perplexity.WithModel(cfg.Perplexity.Model))
		} else {
			zap.L().Warn("GEO_PERPLEXITY_KEY not set, using stub perplexity client")
			pplxClient = &pipeline.StubPerplexityClient{}
		}
		prober = pipeline.NewPerplexityProber(pplxClient)
	default:
		probeModel := cfg.Anthropic.ProbeModel
		if probeModel == "" {
			probeModel = cfg.Anthropic.Model
		}
		prober = pipeline.NewAnthropicProber(aiClient, probeModel)
	}

	scorer, err := initScorer()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	checker := initUsage()

	p := pipeline.New(cfg, st, aiClient, prober, webcontent.NewHTTPFetcher(), checker, scorer)

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
		Usage:    checker,
	}, nil
}

func initScorer() (*scoring.Calculator, error) {
	seed := cfg.Analyze.DeterministicSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	jitter := scoring.NewRandJitter(seed)

	if cfg.Scoring.BenchmarkFile == "" {
		return scoring.New(jitter), nil
	}
	tables, err := scoring.LoadBenchmarkTables(cfg.Scoring.BenchmarkFile)
	if err != nil {
		return nil, eris.Wrap(err, "load benchmark tables")
	}
	zap.L().Info("benchmark overrides loaded", zap.String("file", cfg.Scoring.BenchmarkFile))
	return scoring.NewWithTables(jitter, tables), nil
}

func initUsage() usage.Checker {
	if cfg.Usage.PerMinute <= 0 && cfg.Usage.BudgetUSD <= 0 {
		return usage.Unlimited{}
	}
	return usage.NewTracker(usage.Limits{
		PerMinute: cfg.Usage.PerMinute,
		Burst:     cfg.Usage.Burst,
		BudgetUSD: cfg.Usage.BudgetUSD,
	})
}
