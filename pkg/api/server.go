// Package api provides the HTTP surface for the mockup-to-codebase
// generation service.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonson42/mockforge/pkg/auth"
	"github.com/jonson42/mockforge/pkg/cache"
	"github.com/jonson42/mockforge/pkg/config"
	"github.com/jonson42/mockforge/pkg/metrics"
	"github.com/jonson42/mockforge/pkg/pipeline"
	"github.com/jonson42/mockforge/pkg/prompt"
	"github.com/jonson42/mockforge/pkg/ratelimit"
)

// Server is the HTTP API server, generalized from the teacher's Echo v5
// Server (pkg/api/server.go): same NewServer/setupRoutes/Start/Shutdown
// shape, collaborators swapped from DB/queue/session services to the
// generation pipeline's own collaborators.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	cfg      *config.Config
	validate *validator.Validate
	builder  *prompt.Builder
	engine   *pipeline.Engine
	cache    cache.Store
	limiter  *ratelimit.Limiter
	authCheck *auth.Checker
	metrics  *metrics.Registry

	metricsHandlerFunc http.Handler
	redisHealthy       func() bool // nil when no Redis cache backend is wired
}

// NewServer creates a new API server with Echo v5, wiring every pipeline
// collaborator and registering routes immediately.
func NewServer(
	cfg *config.Config,
	builder *prompt.Builder,
	engine *pipeline.Engine,
	store cache.Store,
	limiter *ratelimit.Limiter,
	authCheck *auth.Checker,
	metricsReg *metrics.Registry,
) *Server {
	e := echo.New()

	s := &Server{
		echo:               e,
		cfg:                cfg,
		validate:           validator.New(),
		builder:            builder,
		engine:             engine,
		cache:              store,
		limiter:            limiter,
		authCheck:          authCheck,
		metrics:            metricsReg,
		metricsHandlerFunc: promhttp.HandlerFor(metricsReg.Gatherer(), promhttp.HandlerOpts{}),
	}

	s.setupRoutes()
	return s
}

// SetRedisHealthCheck wires an optional liveness probe for the Redis cache
// backend, surfaced in GET /health's dependency map.
func (s *Server) SetRedisHealthCheck(check func() bool) {
	s.redisHealthy = check
}

// setupRoutes registers every route spec.md §6.1 names.
func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(10 * 1024 * 1024))
	s.echo.Use(securityHeaders())
	s.echo.Use(requestLogging())
	s.echo.Use(requestMetrics(s.metrics))

	s.echo.GET("/", s.identityHandler)
	s.echo.GET("/health", s.healthHandler)
	s.echo.GET("/metrics", s.metricsHandler)

	protected := s.echo.Group("")
	protected.Use(authMiddleware(s.authCheck, s.cfg.Debug))
	protected.Use(rateLimitMiddleware(s.limiter, s.cfg.Debug))

	protected.POST("/generate", s.generateHandler)
	protected.POST("/generate/chained", s.generateChainedHandler)
	protected.POST("/prompt/preview", s.promptPreviewHandler)
	protected.POST("/validate", s.validateHandler)

	protected.GET("/cache/stats", s.cacheStatsHandler)
	protected.POST("/cache/clear", s.cacheClearHandler)
	protected.DELETE("/cache/entry/:fingerprint", s.cacheDeleteEntryHandler)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener, used
// by tests that need a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
