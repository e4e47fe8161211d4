package config

import "time"

// Defaults matches the default column of spec.md's configuration table.
func Defaults() Config {
	return Config{
		ModelName:          "gpt-4o",
		MaxTokens:          4096,
		Temperature:        0.7,
		Host:               "127.0.0.1",
		Port:               8000,
		Debug:              false,
		MaxFileSizeBytes:   5 * 1024 * 1024,
		RateLimitEnabled:   true,
		RateLimitPerMinute: 5,
		CacheEnabled:       true,
		CacheTTL:           time.Hour,
		CacheMaxSize:       100,
		RequireAPIKey:      false,
	}
}
