package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonson42/mockforge/pkg/apierrors"
	"github.com/jonson42/mockforge/pkg/cache"
	"github.com/jonson42/mockforge/pkg/envelope"
	"github.com/jonson42/mockforge/pkg/llmclient"
	"github.com/jonson42/mockforge/pkg/metrics"
	"github.com/jonson42/mockforge/pkg/prompt"
	"github.com/jonson42/mockforge/pkg/stack"
	"github.com/jonson42/mockforge/pkg/validator"
	"github.com/jonson42/mockforge/pkg/vectorstore"
)

// completer is the subset of *llmclient.Client the engine depends on —
// narrowed to an interface so tests can exercise the fail-fast/fail-open
// stage loop against a fake instead of a real model endpoint.
type completer interface {
	Complete(ctx context.Context, req llmclient.Request) (*llmclient.Response, error)
}

// Engine wires together every stage of the generation pipeline: prompt
// assembly, the LLM client, envelope recovery, syntax advisories, and the
// request cache. Its RunChained loop generalizes the shape of the teacher's
// queue.RealSessionExecutor.Execute chain loop, redesigned from fail-fast
// chain semantics to fail-open-per-stage (see stageSpec.FailFast).
type Engine struct {
	Builder  *prompt.Builder
	LLM      completer
	Registry *stack.Registry
	Cache    cache.Store
	Metrics  *metrics.Registry
	Cancel   *CancelRegistry

	// VectorStore is nil when the optional retrieval feature is disabled;
	// every call site must check for nil rather than this package supplying
	// a no-op stub (pkg/vectorstore's documented contract).
	VectorStore vectorstore.Store
}

// NewEngine builds an Engine from its already-constructed collaborators. vs
// may be nil to disable the optional vector-store upsert.
func NewEngine(builder *prompt.Builder, llm *llmclient.Client, registry *stack.Registry, store cache.Store, reg *metrics.Registry, vs vectorstore.Store) *Engine {
	return &Engine{
		Builder:     builder,
		LLM:         llm,
		Registry:    registry,
		Cache:       store,
		Metrics:     reg,
		Cancel:      NewCancelRegistry(),
		VectorStore: vs,
	}
}

// RunChained executes all eleven stages in order, threading each stage's
// declared artifacts forward as context for the stages that follow. Every
// stage but the architecture stage fails open: an error or an empty-files
// result is recorded and the pipeline continues, because later stages can
// still produce something useful for the rest of the project. The
// architecture stage fails fast — without a plan, no later stage has
// anything meaningful to generate from.
func (e *Engine) RunChained(ctx context.Context, requestID string, req Request) (*Response, error) {
	key := cache.Fingerprint(req.ImageData, req.Description, stackMap(req.TechStack), req.ProjectName, "chained")
	if e.Cache != nil {
		if cached, ok := e.Cache.Get(key); ok {
			e.Metrics.CacheHitsTotal.Inc()
			var resp Response
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			}
		}
		e.Metrics.CacheMissTotal.Inc()
	}

	ctx = e.Cancel.Register(ctx, requestID)
	defer func() {
		e.Cancel.Cancel(requestID)
		e.Cancel.Unregister(requestID)
	}()

	var outcomes []StageOutcome
	var plan *ArchitecturePlan

	for _, spec := range stageTable {
		start := time.Now()
		files, stagePlan, tier, advisories, err := e.runStage(ctx, req, spec, plan, outcomes)
		duration := time.Since(start)

		outcome := StageOutcome{Stage: spec.ID, Files: files, Err: err, Duration: duration, RecoveryTier: tier, Advisories: advisories}
		outcomes = append(outcomes, outcome)

		outcomeLabel := "success"
		if err != nil {
			outcomeLabel = "error"
		} else if len(files) == 0 {
			outcomeLabel = "empty"
		}
		e.Metrics.LLMCallsTotal.WithLabelValues(string(spec.ID), outcomeLabel).Inc()
		e.Metrics.StageLatency.WithLabelValues(string(spec.ID)).Observe(duration.Seconds())

		slog.Info("stage complete",
			"request_id", requestID,
			"stage", spec.ID,
			"duration", duration,
			"files", len(files),
			"error", err,
		)

		if err != nil && spec.FailFast {
			return &Response{
				Success:      false,
				Message:      "generation aborted: architecture stage failed",
				ErrorDetails: err.Error(),
			}, apierrors.NewGenerationError(err.Error(), apierrors.CodeStageEmpty)
		}

		if spec.ID == StageArchitecture && stagePlan != nil {
			plan = stagePlan
			e.upsertPlanSummary(ctx, requestID, plan)
		}
	}

	merged := mergeFiles(outcomes)
	missing := missingStages(outcomes)

	resp := &Response{
		Success: true,
		Message: "generation complete",
		Files:   merged.Files,
	}
	if len(missing) > 0 {
		resp.Message = fmt.Sprintf("generation complete with %d stage(s) producing no output", len(missing))
		for _, m := range missing {
			resp.SetupInstructions = append(resp.SetupInstructions, fmt.Sprintf("stage %s produced no files; review manually", m))
		}
	}
	for _, outcome := range outcomes {
		resp.SetupInstructions = append(resp.SetupInstructions, outcome.Advisories...)
	}

	if e.Cache != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			_ = e.Cache.Set(key, encoded)
		}
	}

	return resp, nil
}

// RunSingleStage runs the alternative composite-call path: one LLM call
// using req.CustomPrompt (or the default full-featured prompt if empty),
// sharing the same envelope parsing, validation, and caching as the
// chained path but with no stage threading.
func (e *Engine) RunSingleStage(ctx context.Context, req Request) (*Response, error) {
	mode := "single"
	key := cache.Fingerprint(req.ImageData, req.Description, stackMap(req.TechStack), req.ProjectName, mode)

	if req.CustomPrompt == "" && e.Cache != nil {
		if cached, ok := e.Cache.Get(key); ok {
			e.Metrics.CacheHitsTotal.Inc()
			var resp Response
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			}
		}
		e.Metrics.CacheMissTotal.Inc()
	}

	system := req.CustomPrompt
	if system == "" {
		built, err := e.Builder.BuildSystem(prompt.FullFeaturedSystemOptions(req.TechStack, req.ProjectName, "web application", prompt.ComponentNone))
		if err != nil {
			return nil, apierrors.NewGenerationError(err.Error(), apierrors.CodeConfiguration)
		}
		system = built
	}

	user := e.Builder.BuildUser(prompt.UserOptions{
		Description: req.Description,
		TechStack:   req.TechStack,
	})

	llmResp, err := e.LLM.Complete(ctx, llmclient.Request{
		System:      system,
		User:        user,
		Image:       req.ImageData,
		MaxTokens:   4000,
		Temperature: 0.2,
	})
	if err != nil {
		e.Metrics.ErrorsTotal.WithLabelValues(string(apierrors.CodeUpstreamNetwork)).Inc()
		return nil, err
	}
	e.Metrics.TokensTotal.WithLabelValues("single", "prompt").Add(float64(llmResp.PromptTokens))
	e.Metrics.TokensTotal.WithLabelValues("single", "completion").Add(float64(llmResp.CompletionTokens))
	e.Metrics.CostEstimateUSD.Add(estimateCostUSD(llmResp.PromptTokens, llmResp.CompletionTokens))

	env, _, err := envelope.Parse(llmResp.RawText)
	if err != nil {
		return &Response{Success: false, Message: "failed to parse model response", ErrorDetails: err.Error()}, nil
	}

	report := validator.Validate(toValidatorInputs(env.Files))

	resp := &Response{
		Success:           true,
		Message:           "generation complete",
		ProjectStructure:  env.ProjectStructure,
		Files:             env.Files,
		Dependencies:      env.Dependencies,
		SetupInstructions: env.SetupInstructions,
	}
	if !report.Valid {
		for _, fe := range report.Errors {
			resp.SetupInstructions = append(resp.SetupInstructions, fmt.Sprintf("syntax advisory: %s: %s", fe.Path, fe.Message))
		}
	}

	if req.CustomPrompt == "" && e.Cache != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			_ = e.Cache.Set(key, encoded)
		}
	}

	return resp, nil
}

// runStage builds and issues the single LLM call for one stage, parsing and
// validating its envelope response. A non-fail-fast stage's error is
// returned to the caller for logging, never panicking the loop.
func (e *Engine) runStage(ctx context.Context, req Request, spec stageSpec, plan *ArchitecturePlan, prior []StageOutcome) ([]envelope.GeneratedFile, *ArchitecturePlan, envelope.Tier, []string, error) {
	opts := prompt.FullFeaturedSystemOptions(req.TechStack, req.ProjectName, "web application", spec.Component)
	system, err := e.Builder.BuildSystem(opts)
	if err != nil {
		return nil, nil, envelope.TierClean, nil, fmt.Errorf("stage %s: building system prompt: %w", spec.ID, err)
	}

	user := e.Builder.BuildUser(prompt.UserOptions{
		Description:     req.Description,
		TechStack:       req.TechStack,
		StageContext:    stageContextFor(spec.ID, plan, prior),
		IncludePrefixes: usesPathPrefix(spec.ID),
	})

	var image []byte
	if includesImage(spec.ID) {
		image = req.ImageData
	}

	llmResp, err := e.LLM.Complete(ctx, llmclient.Request{
		System:      system,
		User:        user,
		Image:       image,
		MaxTokens:   spec.MaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, nil, envelope.TierClean, nil, fmt.Errorf("stage %s: %w", spec.ID, err)
	}
	e.Metrics.TokensTotal.WithLabelValues(string(spec.ID), "prompt").Add(float64(llmResp.PromptTokens))
	e.Metrics.TokensTotal.WithLabelValues(string(spec.ID), "completion").Add(float64(llmResp.CompletionTokens))
	e.Metrics.CostEstimateUSD.Add(estimateCostUSD(llmResp.PromptTokens, llmResp.CompletionTokens))

	env, diag, err := envelope.Parse(llmResp.RawText)
	if err != nil {
		// The architecture stage produces a plan and no files, so a reply
		// that is the bare plan JSON is accepted here.
		if spec.ID == StageArchitecture {
			var p ArchitecturePlan
			if perr := json.Unmarshal([]byte(llmResp.RawText), &p); perr == nil {
				return nil, &p, envelope.TierClean, nil, nil
			}
		}
		return nil, nil, envelope.TierClean, nil, fmt.Errorf("stage %s: %w", spec.ID, err)
	}

	report := validator.Validate(toValidatorInputs(env.Files))
	var advisories []string
	if !report.Valid {
		for _, fe := range report.Errors {
			advisories = append(advisories, fmt.Sprintf("syntax advisory: %s: %s: %s", spec.ID, fe.Path, fe.Message))
		}
	}

	var stagePlan *ArchitecturePlan
	if spec.ID == StageArchitecture {
		stagePlan = &ArchitecturePlan{}
		if perr := json.Unmarshal([]byte(llmResp.RawText), stagePlan); perr != nil || len(env.Files) > 0 {
			stagePlan = parsePlanFromFiles(env.Files)
		}
	}

	return env.Files, stagePlan, diag.Tier, advisories, nil
}

// upsertPlanSummary stores the architecture plan's Summary as a retrievable
// document for future prompts, best-effort: a vector-store failure is logged
// and never aborts or degrades the generation itself. No embedding model is
// wired (pkg/vectorstore is an interface over an externally-hosted index, per
// SPEC_FULL.md §4.10), so this upserts the plan text with no vector — callers
// of Search that require a populated Vector are responsible for embedding it
// upstream of this process.
func (e *Engine) upsertPlanSummary(ctx context.Context, requestID string, plan *ArchitecturePlan) {
	if e.VectorStore == nil || plan.Summary == "" {
		return
	}
	doc := vectorstore.Document{
		ID:   requestID,
		Text: plan.Summary,
		Metadata: map[string]string{
			"pages": fmt.Sprintf("%d", len(plan.Pages)),
		},
	}
	if err := e.VectorStore.Upsert(ctx, []vectorstore.Document{doc}); err != nil {
		slog.Warn("vector store upsert failed", "request_id", requestID, "error", err)
	}
}

// stageContextFor builds the "Stage context" text for a given stage: the
// architecture plan summary plus every prior stage's declared file
// manifest, exactly the context every stage after the first receives.
func stageContextFor(id StageID, plan *ArchitecturePlan, prior []StageOutcome) string {
	if id == StageArchitecture {
		return ""
	}
	return planContext(plan) + buildStageContext(prior)
}

// parsePlanFromFiles is the fallback when the architecture stage's raw
// response is not directly the plan JSON (e.g. the model wrapped it in the
// file envelope instead) — it looks for a plan embedded in the first file's
// content rather than failing the whole stage.
func parsePlanFromFiles(files []envelope.GeneratedFile) *ArchitecturePlan {
	if len(files) == 0 {
		return nil
	}
	var plan ArchitecturePlan
	if err := json.Unmarshal([]byte(files[0].Content), &plan); err != nil {
		return nil
	}
	return &plan
}

func toValidatorInputs(files []envelope.GeneratedFile) []validator.FileInput {
	inputs := make([]validator.FileInput, len(files))
	for i, f := range files {
		inputs[i] = validator.FileInput{Path: f.Path, Content: f.Content}
	}
	return inputs
}

// Per-token USD rates used for the running cost estimate exposed via
// metrics.CostEstimateUSD. Approximate gpt-4o list pricing; close enough for
// an operational estimate, not a billing reconciliation.
const (
	costPerPromptTokenUSD     = 5.0 / 1_000_000
	costPerCompletionTokenUSD = 15.0 / 1_000_000
)

func estimateCostUSD(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)*costPerPromptTokenUSD + float64(completionTokens)*costPerCompletionTokenUSD
}

func stackMap(ts stack.TechStack) map[string]string {
	return map[string]string{
		"frontend":     string(ts.Frontend),
		"backend":      string(ts.Backend),
		"database":     string(ts.Database),
		"architecture": string(ts.Architecture),
	}
}
