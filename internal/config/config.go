package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/geo-analyzer/internal/cost"
	"github.com/sells-group/geo-analyzer/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Analyze    AnalyzeConfig    `yaml:"analyze" mapstructure:"analyze"`
	Usage      UsageConfig      `yaml:"usage" mapstructure:"usage"`
	Pricing    cost.Rates       `yaml:"pricing" mapstructure:"pricing"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string            `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	Model      string `yaml:"model" mapstructure:"model"`
	ProbeModel string `yaml:"probe_model" mapstructure:"probe_model"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnalyzeConfig configures pipeline behavior.
type AnalyzeConfig struct {
	ProbeEngine       string `yaml:"probe_engine" mapstructure:"probe_engine"`
	ProbeConcurrency  int    `yaml:"probe_concurrency" mapstructure:"probe_concurrency"`
	ProbeTimeoutSecs  int    `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	BatchTimeoutSecs  int    `yaml:"batch_timeout_secs" mapstructure:"batch_timeout_secs"`
	FetchTimeoutSecs  int    `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	ContentTTLHours   int    `yaml:"content_ttl_hours" mapstructure:"content_ttl_hours"`
	DeterministicSeed int64  `yaml:"deterministic_seed" mapstructure:"deterministic_seed"`
}

// UsageConfig configures rate and budget limits on live analyses.
type UsageConfig struct {
	PerMinute int     `yaml:"per_minute" mapstructure:"per_minute"`
	Burst     int     `yaml:"burst" mapstructure:"burst"`
	BudgetUSD float64 `yaml:"budget_usd" mapstructure:"budget_usd"`
}

// ScoringConfig configures score computation.
type ScoringConfig struct {
	// BenchmarkFile optionally overrides the built-in benchmark
	// multiplier tables.
	BenchmarkFile string `yaml:"benchmark_file" mapstructure:"benchmark_file"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "geo.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.probe_model", "claude-haiku-4-5-20251001")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar")
	v.SetDefault("analyze.probe_engine", "anthropic")
	v.SetDefault("analyze.probe_concurrency", 3)
	v.SetDefault("analyze.probe_timeout_secs", 10)
	v.SetDefault("analyze.batch_timeout_secs", 30)
	v.SetDefault("analyze.fetch_timeout_secs", 5)
	v.SetDefault("analyze.content_ttl_hours", 24)
	v.SetDefault("usage.per_minute", 10)
	v.SetDefault("usage.burst", 3)
	v.SetDefault("usage.budget_usd", 0)
	v.SetDefault("pricing.perplexity.per_query", 0.005)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks configuration for the given mode ("analyze" or "serve").
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "analyze", "serve":
		if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
		if c.Analyze.ProbeEngine != "anthropic" && c.Analyze.ProbeEngine != "perplexity" {
			problems = append(problems, "analyze.probe_engine must be anthropic or perplexity")
		}
		if c.Analyze.ProbeConcurrency < 1 || c.Analyze.ProbeConcurrency > 20 {
			problems = append(problems, "analyze.probe_concurrency must be between 1 and 20")
		}
		if mode == "serve" && c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
