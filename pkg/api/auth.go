package api

import (
	echo "github.com/labstack/echo/v5"

	"github.com/jonson42/mockforge/pkg/auth"
)

// authMiddleware enforces the Bearer-token check from pkg/auth on every
// request it wraps. Generalizes the teacher's header-extraction style
// (pkg/api/auth.go's extractAuthor) from trusting an upstream oauth2-proxy
// header to verifying a caller-supplied credential directly, since this
// service has no such proxy in front of it.
func authMiddleware(checker *auth.Checker, debug bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if !checker.Required() {
				return next(c)
			}
			if !checker.Check(c.Request().Header.Get("Authorization")) {
				return newAPIError(c, errAuth("missing or invalid API key"), debug)
			}
			return next(c)
		}
	}
}
