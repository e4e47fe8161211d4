package api

import (
	"log/slog"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/jonson42/mockforge/pkg/apierrors"
)

// ErrorResponse is the typed error body spec.md §6.3 requires on every
// non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// errAuth builds a typed authentication error for the auth middleware.
func errAuth(message string) error {
	return apierrors.NewAuthError(message, apierrors.CodeMissingCredential)
}

// newAPIError writes err as the §6.3 error envelope, generalizing the
// teacher's mapServiceError dispatch from the service-layer error taxonomy
// (services.ErrNotFound/ErrAlreadyExists/...) to apierrors' typed errors.
// debug gates Details: spec.md §7 requires production responses carry only
// kind/code/message/timestamp/path, with internal detail (here, the
// underlying error's message) surfaced only when the deployment runs in
// debug mode.
func newAPIError(c *echo.Context, err error, debug bool) error {
	status, kind := httpStatusAndKind(err)
	code := apierrors.CodeOf(err)

	resp := ErrorResponse{
		Error:     kind,
		ErrorCode: string(code),
		Message:   err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request().URL.Path,
	}
	if debug {
		resp.Details = err.Error()
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", resp.Path, "code", code)
	}

	return c.JSON(status, resp)
}

func httpStatusAndKind(err error) (int, string) {
	switch {
	case apierrors.IsValidationError(err):
		return http.StatusBadRequest, "validation_error"
	case apierrors.IsAuthError(err):
		return http.StatusUnauthorized, "authentication_error"
	case apierrors.IsRateLimitError(err):
		return http.StatusTooManyRequests, "rate_limit_error"
	case apierrors.IsUpstreamError(err):
		return http.StatusBadGateway, "upstream_error"
	case apierrors.IsGenerationError(err):
		return http.StatusUnprocessableEntity, "generation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
