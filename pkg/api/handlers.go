package api

import (
	"encoding/base64"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/jonson42/mockforge/pkg/apierrors"
	"github.com/jonson42/mockforge/pkg/cache"
	"github.com/jonson42/mockforge/pkg/llmclient"
	"github.com/jonson42/mockforge/pkg/pipeline"
	"github.com/jonson42/mockforge/pkg/prompt"
	"github.com/jonson42/mockforge/pkg/sanitize"
	"github.com/jonson42/mockforge/pkg/stack"
	"github.com/jonson42/mockforge/pkg/validator"
	"github.com/jonson42/mockforge/pkg/version"
)

// identityHandler handles GET /.
func (s *Server) identityHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, IdentityResponse{Service: "mockforge", Version: version.Full()})
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *echo.Context) error {
	deps := map[string]string{"llm": "configured"}
	if s.redisHealthy != nil {
		if s.redisHealthy() {
			deps["redis"] = "ok"
		} else {
			deps["redis"] = "unreachable"
		}
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: version.Full(), Dependencies: deps})
}

// decodeGenerateRequest validates and decodes a GenerateRequest's image and
// tech stack into a pipeline.Request, applying the sanitize package's
// description cleanup and image-type sniffing before anything touches the
// LLM.
func (s *Server) decodeGenerateRequest(req GenerateRequest) (pipeline.Request, error) {
	if err := s.validate.Struct(req); err != nil {
		return pipeline.Request{}, apierrors.NewValidationError("body", err.Error(), apierrors.CodeInvalidRequest)
	}
	if !req.TechStack.Frontend.IsValid() {
		return pipeline.Request{}, apierrors.NewValidationError("tech_stack.frontend", "unrecognized frontend identifier", apierrors.CodeInvalidStack)
	}
	if !req.TechStack.Backend.IsValid() {
		return pipeline.Request{}, apierrors.NewValidationError("tech_stack.backend", "unrecognized backend identifier", apierrors.CodeInvalidStack)
	}
	if !req.TechStack.Database.IsValid() {
		return pipeline.Request{}, apierrors.NewValidationError("tech_stack.database", "unrecognized database identifier", apierrors.CodeInvalidStack)
	}
	if !req.TechStack.Architecture.IsValid() {
		return pipeline.Request{}, apierrors.NewValidationError("tech_stack.architecture", "unrecognized architecture identifier", apierrors.CodeInvalidStack)
	}

	raw, err := base64.StdEncoding.DecodeString(req.ImageData)
	if err != nil {
		return pipeline.Request{}, apierrors.NewValidationError("image_data", "not valid base64", apierrors.CodeInvalidImage)
	}
	if int64(len(raw)) > s.cfg.MaxFileSizeBytes {
		return pipeline.Request{}, apierrors.NewValidationError("image_data", "exceeds maximum file size", apierrors.CodeImageTooLarge)
	}
	mimeType, ok := sanitize.DetectImageType(raw)
	if !ok {
		return pipeline.Request{}, apierrors.NewValidationError("image_data", "unrecognized image type", apierrors.CodeInvalidImage)
	}
	normalized, err := llmclient.NormalizeImage(raw, mimeType)
	if err != nil {
		return pipeline.Request{}, apierrors.NewValidationError("image_data", "failed to decode image: "+err.Error(), apierrors.CodeInvalidImage)
	}

	descResult := sanitize.Text(req.Description, sanitize.DefaultMaxDescriptionLength)
	if len(descResult.Text) < 10 {
		return pipeline.Request{}, apierrors.NewValidationError("description", "must be at least 10 characters", apierrors.CodeDescriptionTooShort)
	}

	return pipeline.Request{
		ImageData:   normalized,
		Description: descResult.Text,
		TechStack: stack.TechStack{
			Frontend:     req.TechStack.Frontend,
			Backend:      req.TechStack.Backend,
			Database:     req.TechStack.Database,
			Architecture: req.TechStack.Architecture,
		}.Normalize(),
		ProjectName:  req.ProjectName,
		CustomPrompt: req.CustomPrompt,
	}, nil
}

// generateHandler handles POST /generate.
func (s *Server) generateHandler(c *echo.Context) error {
	var body GenerateRequest
	if err := c.Bind(&body); err != nil {
		return newAPIError(c, apierrors.NewValidationError("body", "malformed JSON", apierrors.CodeInvalidRequest), s.cfg.Debug)
	}

	req, err := s.decodeGenerateRequest(body)
	if err != nil {
		return newAPIError(c, err, s.cfg.Debug)
	}

	resp, err := s.engine.RunSingleStage(c.Request().Context(), req)
	if err != nil {
		return newAPIError(c, err, s.cfg.Debug)
	}
	return c.JSON(http.StatusOK, resp)
}

// generateChainedHandler handles POST /generate/chained.
func (s *Server) generateChainedHandler(c *echo.Context) error {
	var body GenerateRequest
	if err := c.Bind(&body); err != nil {
		return newAPIError(c, apierrors.NewValidationError("body", "malformed JSON", apierrors.CodeInvalidRequest), s.cfg.Debug)
	}
	body.CustomPrompt = ""

	req, err := s.decodeGenerateRequest(body)
	if err != nil {
		return newAPIError(c, err, s.cfg.Debug)
	}

	requestID := c.Get("request_id").(string)
	resp, err := s.engine.RunChained(c.Request().Context(), requestID, req)
	if err != nil {
		return newAPIError(c, err, s.cfg.Debug)
	}
	return c.JSON(http.StatusOK, resp)
}

// promptPreviewHandler handles POST /prompt/preview.
func (s *Server) promptPreviewHandler(c *echo.Context) error {
	var body PromptPreviewRequest
	if err := c.Bind(&body); err != nil {
		return newAPIError(c, apierrors.NewValidationError("body", "malformed JSON", apierrors.CodeInvalidRequest), s.cfg.Debug)
	}
	if err := s.validate.Struct(body); err != nil {
		return newAPIError(c, apierrors.NewValidationError("body", err.Error(), apierrors.CodeInvalidRequest), s.cfg.Debug)
	}

	ts := stack.TechStack{
		Frontend:     body.TechStack.Frontend,
		Backend:      body.TechStack.Backend,
		Database:     body.TechStack.Database,
		Architecture: body.TechStack.Architecture,
	}

	system, err := s.builder.BuildSystem(prompt.FullFeaturedSystemOptions(ts, body.ProjectName, "web application", prompt.ComponentBackend))
	if err != nil {
		return newAPIError(c, apierrors.NewGenerationError(err.Error(), apierrors.CodeConfiguration), s.cfg.Debug)
	}
	user := s.builder.BuildUser(prompt.UserOptions{Description: body.Description, TechStack: ts})

	return c.JSON(http.StatusOK, PromptPreviewResponse{System: system, User: user})
}

// validateHandler handles POST /validate.
func (s *Server) validateHandler(c *echo.Context) error {
	var body ValidateRequest
	if err := c.Bind(&body); err != nil {
		return newAPIError(c, apierrors.NewValidationError("body", "malformed JSON", apierrors.CodeInvalidRequest), s.cfg.Debug)
	}

	inputs := make([]validator.FileInput, len(body.Files))
	for i, f := range body.Files {
		inputs[i] = validator.FileInput{Path: f.Path, Content: f.Content}
	}

	return c.JSON(http.StatusOK, validator.Validate(inputs))
}

// metricsHandler handles GET /metrics via promhttp over the engine's
// dedicated registry.
func (s *Server) metricsHandler(c *echo.Context) error {
	s.metricsHandlerFunc.ServeHTTP(c.Response(), c.Request())
	return nil
}

// cacheStatsHandler handles GET /cache/stats.
func (s *Server) cacheStatsHandler(c *echo.Context) error {
	if s.cache == nil {
		return c.JSON(http.StatusOK, CacheStatsResponse{})
	}
	stats := s.cache.Stats()
	return c.JSON(http.StatusOK, CacheStatsResponse{
		Hits:    stats.Hits,
		Misses:  stats.Misses,
		Size:    stats.Size,
		MaxSize: stats.MaxSize,
	})
}

// cacheClearHandler handles POST /cache/clear.
func (s *Server) cacheClearHandler(c *echo.Context) error {
	if s.cache == nil {
		return c.NoContent(http.StatusNoContent)
	}
	if clearer, ok := s.cache.(interface{ Clear() error }); ok {
		if err := clearer.Clear(); err != nil {
			return newAPIError(c, apierrors.NewGenerationError(err.Error(), apierrors.CodeInternal), s.cfg.Debug)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// cacheDeleteEntryHandler handles DELETE /cache/entry/{fingerprint}.
func (s *Server) cacheDeleteEntryHandler(c *echo.Context) error {
	if s.cache == nil {
		return c.NoContent(http.StatusNoContent)
	}
	fingerprint := c.Param("fingerprint")
	if err := s.cache.Delete(cache.Key(fingerprint)); err != nil {
		return newAPIError(c, apierrors.NewGenerationError(err.Error(), apierrors.CodeInternal), s.cfg.Debug)
	}
	return c.NoContent(http.StatusNoContent)
}
