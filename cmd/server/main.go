// mockforge serves the mockup-to-codebase generation HTTP API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/jonson42/mockforge/pkg/api"
	"github.com/jonson42/mockforge/pkg/auth"
	"github.com/jonson42/mockforge/pkg/cache"
	"github.com/jonson42/mockforge/pkg/config"
	"github.com/jonson42/mockforge/pkg/llmclient"
	"github.com/jonson42/mockforge/pkg/metrics"
	"github.com/jonson42/mockforge/pkg/pipeline"
	"github.com/jonson42/mockforge/pkg/prompt"
	"github.com/jonson42/mockforge/pkg/ratelimit"
	"github.com/jonson42/mockforge/pkg/stack"
	"github.com/jonson42/mockforge/pkg/vectorstore"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	envPath := flag.String("env-file", getEnv("ENV_FILE", ".env"), "Path to a .env file")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil {
		slog.Warn("could not load env file, continuing with existing environment", "path", *envPath, "error", err)
	} else {
		slog.Info("loaded environment", "path", *envPath)
	}

	ctx := context.Background()

	cfg, err := config.Initialize(ctx)
	if err != nil {
		slog.Error("failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	registry := stack.NewRegistry()
	if cfg.TemplatesPath != "" {
		if err := registry.LoadOverrides(cfg.TemplatesPath); err != nil {
			slog.Error("failed to load template overrides", "path", cfg.TemplatesPath, "error", err)
			os.Exit(1)
		}
	}

	builder := prompt.NewBuilder(registry)
	llm := llmclient.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName)
	metricsReg := metrics.New()

	var store cache.Store
	var redisHealthy func() bool
	if cfg.CacheEnabled {
		if cfg.RedisURL != "" {
			opts, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				slog.Error("invalid REDIS_URL", "error", err)
				os.Exit(1)
			}
			client := redis.NewClient(opts)
			store = cache.NewRedisStore(client, "mockforge:", cache.Config{MaxSize: cfg.CacheMaxSize, TTL: cfg.CacheTTL})
			redisHealthy = func() bool {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx).Err() == nil
			}
			slog.Info("cache backend: redis", "url", cfg.RedisURL)
		} else {
			store = cache.NewMemoryStore(cache.Config{MaxSize: cfg.CacheMaxSize, TTL: cfg.CacheTTL})
			slog.Info("cache backend: in-memory", "max_size", cfg.CacheMaxSize)
		}
	}

	limits := map[ratelimit.EndpointClass]ratelimit.Limits{
		ratelimit.ClassGeneration: {Capacity: float64(cfg.RateLimitPerMinute), RefillRate: float64(cfg.RateLimitPerMinute) / 60},
		ratelimit.ClassDefault:    {Capacity: 60, RefillRate: 1},
	}
	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.NewLimiter(limits, 10*time.Minute)
	}

	authChecker := auth.NewChecker(cfg.RequireAPIKey, cfg.APIKeys)

	var vs vectorstore.Store
	if cfg.VectorStoreEnabled {
		vs = vectorstore.NewRESTClient(cfg.VectorStoreBaseURL, cfg.VectorStoreAPIKey)
		slog.Info("vector store enabled", "base_url", cfg.VectorStoreBaseURL)
	}

	engine := pipeline.NewEngine(builder, llm, registry, store, metricsReg, vs)

	server := api.NewServer(cfg, builder, engine, store, limiter, authChecker, metricsReg)
	if redisHealthy != nil {
		server.SetRedisHealthCheck(redisHealthy)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errCh <- server.Start(addr)
	}()

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
