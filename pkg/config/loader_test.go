package config

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearMockforgeEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "MODEL_NAME", "MAX_TOKENS", "TEMPERATURE",
		"HOST", "PORT", "DEBUG", "MAX_FILE_SIZE", "RATE_LIMIT_ENABLED", "RATE_LIMIT_PER_MINUTE",
		"CACHE_ENABLED", "CACHE_TTL_SECONDS", "CACHE_MAX_SIZE", "REDIS_URL",
		"REQUIRE_API_KEY", "API_KEYS", "VECTOR_STORE_ENABLED", "VECTOR_STORE_BASE_URL",
		"VECTOR_STORE_API_KEY", "TEMPLATES_PATH",
	} {
		os.Unsetenv(k)
	}
}

func TestInitializeFailsWithoutRequiredAPIKey(t *testing.T) {
	clearMockforgeEnv(t)
	_, err := Initialize(context.Background())
	assert.Error(t, err)
}

func TestInitializeAppliesDefaultsAndEnvOverrides(t *testing.T) {
	clearMockforgeEnv(t)
	os.Setenv("OPENAI_API_KEY", "sk-test")
	os.Setenv("PORT", "9090")
	os.Setenv("API_KEYS", "key-a, key-b")
	defer clearMockforgeEnv(t)

	cfg, err := Initialize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.ModelName)
	assert.Equal(t, []string{"key-a", "key-b"}, cfg.APIKeys)
	assert.True(t, cfg.RateLimitEnabled)
}

func TestInitializeRejectsOutOfRangeTemperature(t *testing.T) {
	clearMockforgeEnv(t)
	os.Setenv("OPENAI_API_KEY", "sk-test")
	os.Setenv("TEMPERATURE", "5")
	defer clearMockforgeEnv(t)

	_, err := Initialize(context.Background())
	assert.Error(t, err)
}
