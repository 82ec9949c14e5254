// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CheckinQueueSize bounds the in-memory check-in queue.
	CheckinQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of sentiment classification workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the check-in deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// CapabilityTimeoutMS bounds each external text-capability call.
	CapabilityTimeoutMS int `koanf:"capability_timeout_ms"`

	// AIEnabled toggles the external text capability. When false all
	// classification and insight generation use deterministic fallbacks.
	AIEnabled bool `koanf:"ai_enabled"`

	// GeminiAPIKey authenticates against the Gemini API when AIEnabled is set.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel selects the Gemini model used for text generation.
	GeminiModel string `koanf:"gemini_model"`

	// MatchOverlapWeight and MatchSimilarityWeight split the match score
	// between token overlap and semantic similarity. They must sum to 1.
	MatchOverlapWeight    float64 `koanf:"match_overlap_weight"`
	MatchSimilarityWeight float64 `koanf:"match_similarity_weight"`

	// RiskTenureThresholdYears is the tenure at which tenure risk reaches zero.
	RiskTenureThresholdYears float64 `koanf:"risk_tenure_threshold_years"`

	// CriterionWeights maps evaluation criteria to their aggregation weights.
	CriterionWeights map[string]float64 `koanf:"criterion_weights"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		CheckinQueueSize:    10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		CapabilityTimeoutMS: 5_000,
		AIEnabled:           false,
		GeminiAPIKey:        "",
		GeminiModel:         "gemini-2.5-flash",

		MatchOverlapWeight:       0.7,
		MatchSimilarityWeight:    0.3,
		RiskTenureThresholdYears: 5,
		CriterionWeights: map[string]float64{
			"technical":    0.25,
			"productivity": 0.20,
			"teamwork":     0.20,
			"innovation":   0.20,
			"attendance":   0.15,
		},
	}
	return c
}
