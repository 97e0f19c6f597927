package domain

import "time"

// Config is the root configuration structure
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Reference ReferenceConfig `mapstructure:"reference"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RateLimitPerSec float64       `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// EngineConfig holds the evaluation/scoring engine tunables.
type EngineConfig struct {
	// FuzzyThreshold is the minimum partial-ratio similarity (0-100)
	// accepted by the keyword matcher's fuzzy fallback.
	FuzzyThreshold int `mapstructure:"fuzzy_threshold"`
	// MinNormalizeLength is the minimum raw-text length that qualifies for
	// full lemmatization; shorter fields are case-folded only.
	MinNormalizeLength int `mapstructure:"min_normalize_length"`
	// LemmaCacheSize bounds the process-wide word-to-lemma LRU cache.
	LemmaCacheSize int `mapstructure:"lemma_cache_size"`
	// MaxParallelRulesets bounds concurrent ruleset scoring within one
	// evaluation. Zero means one goroutine per available core.
	MaxParallelRulesets int `mapstructure:"max_parallel_rulesets"`
}

// ReferenceConfig points at optional YAML overrides for the built-in
// reference data. Empty paths keep the compiled-in defaults.
type ReferenceConfig struct {
	RangeTablePath string `mapstructure:"range_table_path"`
	RulesetsPath   string `mapstructure:"rulesets_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
