package api

import (
	"strconv"

	echo "github.com/labstack/echo/v5"

	"github.com/jonson42/mockforge/pkg/apierrors"
	"github.com/jonson42/mockforge/pkg/ratelimit"
)

// rateLimitMiddleware enforces pkg/ratelimit's per-(client, endpoint-class)
// token bucket. The generation endpoints are metered separately from the
// cheaper advisory endpoints, matching spec.md's distinction between
// LLM-backed and local-only operations.
func rateLimitMiddleware(limiter *ratelimit.Limiter, debug bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if limiter == nil {
				return next(c)
			}

			class := ratelimit.ClassDefault
			path := c.Request().URL.Path
			if path == "/generate" || path == "/generate/chained" {
				class = ratelimit.ClassGeneration
			}

			client := clientKey(c)
			decision := limiter.Allow(client, class)
			if !decision.Allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())))
				return newAPIError(c, apierrors.NewRateLimitError(int(decision.RetryAfter.Seconds())), debug)
			}
			return next(c)
		}
	}
}

// clientKey identifies the caller for rate-limit bucketing: the bearer
// token when present (so authenticated callers each get their own bucket),
// falling back to the remote address.
func clientKey(c *echo.Context) string {
	if authz := c.Request().Header.Get("Authorization"); authz != "" {
		return authz
	}
	return c.Request().RemoteAddr
}
