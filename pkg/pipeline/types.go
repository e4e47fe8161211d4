// Package pipeline orchestrates the eleven-call staged generation engine:
// it threads forward each stage's declared artifacts as context for later
// stages, merges per-stage file lists into one deduplicated response, and
// runs the alternative single-composite-call path over the same response
// parsing, validation, and caching. The sequential stage loop and
// structured per-stage logging generalize the teacher's
// queue.RealSessionExecutor.Execute chain loop — adapted from its fail-fast
// chain semantics to this spec's fail-open-per-stage redesign (every stage
// but the first keeps going on failure; see Engine.RunChained).
package pipeline

import (
	"time"

	"github.com/jonson42/mockforge/pkg/envelope"
	"github.com/jonson42/mockforge/pkg/stack"
)

// Request is the externally-accepted generation input (spec.md §3
// GenerationRequest).
type Request struct {
	ImageData     []byte // decoded image bytes, already normalized to PNG
	Description   string
	TechStack     stack.TechStack
	ProjectName   string
	CustomPrompt  string // single-stage path only; non-empty bypasses cache
}

// ArchitecturePlan is stage 1's output, consumed by every later stage.
type ArchitecturePlan struct {
	Pages       []string `json:"pages"`
	Components  []string `json:"components"`
	Features    Features `json:"features"`
	Endpoints   []string `json:"api_endpoints"`
	Tables      []string `json:"database_tables"`
	// Summary is a short natural-language description of the plan, used as
	// the dense-text input to the optional vector-store embedding request.
	Summary string `json:"summary"`
}

// Features are the plan's feature flags.
type Features struct {
	Auth     bool `json:"auth"`
	Realtime bool `json:"realtime"`
	Upload   bool `json:"file_upload"`
}

// StageID names one of the fixed pipeline stages.
type StageID string

const (
	StageArchitecture     StageID = "1_architecture"
	StageDatabase         StageID = "2_database"
	StageBackendCore      StageID = "3.1_backend_core"
	StageBackendModels    StageID = "3.2_backend_models"
	StageBackendRoutes    StageID = "3.3_backend_routes"
	StageBackendMiddlewre StageID = "3.4_backend_middleware"
	StageFrontendSetup    StageID = "4.1_frontend_setup"
	StageFrontendCore     StageID = "4.2_frontend_core"
	StageFrontendPages    StageID = "4.3_frontend_pages"
	StageFrontendComps    StageID = "4.4_frontend_components"
	StageConfigDeploy     StageID = "5_config_deployment"
)

// StageOutcome records one stage's execution result for logging, metrics,
// and response assembly.
type StageOutcome struct {
	Stage        StageID
	Files        []envelope.GeneratedFile
	Err          error
	Duration     time.Duration
	RecoveryTier envelope.Tier
	Advisories   []string
}

// Response is the envelope the engine returns (spec.md §3
// GenerationResponse).
type Response struct {
	Success           bool                         `json:"success"`
	Message           string                       `json:"message"`
	ProjectStructure  map[string][]string          `json:"project_structure,omitempty"`
	Files             []envelope.GeneratedFile     `json:"files"`
	Dependencies      map[string][]string          `json:"dependencies,omitempty"`
	SetupInstructions []string                     `json:"setup_instructions,omitempty"`
	ErrorDetails      string                       `json:"error_details,omitempty"`
}
