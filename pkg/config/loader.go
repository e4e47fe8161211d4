package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Initialize loads, applies defaults to, and validates the runtime
// configuration from the process environment — the same
// load-then-validate-then-log shape as the teacher's config.Initialize,
// generalized from YAML-file loading to env-var loading since this
// service's configuration surface (spec.md §6.4) is flat.
func Initialize(_ context.Context) (*Config, error) {
	log := slog.Default()
	log.Info("initializing configuration")

	cfg := Defaults()

	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.ModelName = getEnv("MODEL_NAME", cfg.ModelName)
	cfg.MaxTokens = getEnvInt("MAX_TOKENS", cfg.MaxTokens)
	cfg.Temperature = getEnvFloat("TEMPERATURE", cfg.Temperature)

	cfg.Host = getEnv("HOST", cfg.Host)
	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.Debug = getEnvBool("DEBUG", cfg.Debug)

	cfg.MaxFileSizeBytes = int64(getEnvInt("MAX_FILE_SIZE", int(cfg.MaxFileSizeBytes)))

	cfg.RateLimitEnabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)

	cfg.CacheEnabled = getEnvBool("CACHE_ENABLED", cfg.CacheEnabled)
	cfg.CacheTTL = time.Duration(getEnvInt("CACHE_TTL_SECONDS", int(cfg.CacheTTL/time.Second))) * time.Second
	cfg.CacheMaxSize = getEnvInt("CACHE_MAX_SIZE", cfg.CacheMaxSize)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.RequireAPIKey = getEnvBool("REQUIRE_API_KEY", cfg.RequireAPIKey)
	if keys := getEnv("API_KEYS", ""); keys != "" {
		cfg.APIKeys = splitCommaList(keys)
	}

	cfg.VectorStoreEnabled = getEnvBool("VECTOR_STORE_ENABLED", cfg.VectorStoreEnabled)
	cfg.VectorStoreBaseURL = getEnv("VECTOR_STORE_BASE_URL", cfg.VectorStoreBaseURL)
	cfg.VectorStoreAPIKey = getEnv("VECTOR_STORE_API_KEY", cfg.VectorStoreAPIKey)

	cfg.TemplatesPath = getEnv("TEMPLATES_PATH", cfg.TemplatesPath)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized",
		"model", cfg.ModelName,
		"host", cfg.Host,
		"port", cfg.Port,
		"cache_enabled", cfg.CacheEnabled,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"require_api_key", cfg.RequireAPIKey,
	)

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid float env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
