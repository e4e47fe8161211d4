// Package metrics exposes operational counters and histograms via
// prometheus/client_golang, mirroring the teacher's pattern of a dedicated
// unauthenticated operational endpoint (alongside /health) — here /metrics
// serving promhttp.HandlerFor over this package's own Registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles the collectors the pipeline and API layer record against.
// A struct (rather than package-level globals) so tests can build an
// isolated registry instead of colliding on the default one.
type Registry struct {
	reg *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
	LLMCallsTotal   *prometheus.CounterVec
	TokensTotal     *prometheus.CounterVec
	CostEstimateUSD prometheus.Counter
	StageLatency    *prometheus.HistogramVec
	RequestLatency  *prometheus.HistogramVec
	CacheHitsTotal  prometheus.Counter
	CacheMissTotal  prometheus.Counter
}

// New builds a Registry with all collectors registered against a fresh
// prometheus.Registry (not the global DefaultRegisterer), so callers fully
// control what /metrics exposes.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mockforge_requests_total",
			Help: "Total requests per endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),

		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mockforge_errors_total",
			Help: "Total errors per error code.",
		}, []string{"code"}),

		LLMCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mockforge_llm_calls_total",
			Help: "Total LLM calls per stage and outcome.",
		}, []string{"stage", "outcome"}),

		TokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mockforge_llm_tokens_total",
			Help: "Total tokens consumed per stage and direction (prompt/completion).",
		}, []string{"stage", "direction"}),

		CostEstimateUSD: factory.NewCounter(prometheus.CounterOpts{
			Name: "mockforge_cost_estimate_usd_total",
			Help: "Running estimate of USD cost from token usage.",
		}),

		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mockforge_stage_latency_seconds",
			Help:    "Per-stage LLM call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mockforge_request_latency_seconds",
			Help:    "End-to-end request latency per endpoint.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"endpoint"}),

		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mockforge_cache_hits_total",
			Help: "Total cache hits.",
		}),

		CacheMissTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mockforge_cache_misses_total",
			Help: "Total cache misses.",
		}),
	}
}

// Gatherer exposes the underlying prometheus.Gatherer for promhttp.HandlerFor.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
