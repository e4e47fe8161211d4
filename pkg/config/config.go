// Package config loads and validates the service's environment-driven
// configuration, generalizing the teacher's YAML-registry config package
// (agents/chains/MCP servers) down to this spec's flat env-var surface —
// same ExpandEnv + struct-tag-validate idiom, simpler shape since this
// service has no agent/chain registries to assemble.
package config

import "time"

// Config is the fully resolved, validated runtime configuration.
type Config struct {
	// Upstream LLM.
	OpenAIAPIKey  string `validate:"required"`
	OpenAIBaseURL string
	ModelName     string  `validate:"required"`
	MaxTokens     int     `validate:"min=1"`
	Temperature   float64 `validate:"min=0,max=2"`

	// HTTP bind.
	Host  string `validate:"required"`
	Port  int    `validate:"min=1,max=65535"`
	Debug bool

	// Request limits.
	MaxFileSizeBytes int64 `validate:"min=1"`

	// Rate limiting.
	RateLimitEnabled   bool
	RateLimitPerMinute int `validate:"min=1"`

	// Cache.
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheMaxSize int    `validate:"min=1"`
	RedisURL     string // empty means in-memory cache

	// Auth.
	RequireAPIKey bool
	APIKeys       []string

	// Optional vector store.
	VectorStoreEnabled bool
	VectorStoreBaseURL string
	VectorStoreAPIKey  string

	// Optional template override file, consumed by stack.Registry.
	TemplatesPath string
}
