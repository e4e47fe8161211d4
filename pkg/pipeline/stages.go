package pipeline

import "github.com/jonson42/mockforge/pkg/prompt"

// stageSpec is one row of the fixed eleven-stage table (spec.md §4.3).
type stageSpec struct {
	ID          StageID
	Purpose     string
	MaxTokens   int
	Component   prompt.Component
	// FailFast marks the one stage (architecture) whose failure aborts the
	// whole pipeline rather than degrading to an empty-files stage result.
	FailFast bool
}

// stageTable is the fixed, ordered pipeline — never reordered or extended
// at runtime.
var stageTable = []stageSpec{
	{ID: StageArchitecture, Purpose: "architecture plan", MaxTokens: 2000, Component: prompt.ComponentNone, FailFast: true},
	{ID: StageDatabase, Purpose: "database schema", MaxTokens: 2000, Component: prompt.ComponentDatabase},
	{ID: StageBackendCore, Purpose: "backend core", MaxTokens: 3000, Component: prompt.ComponentBackend},
	{ID: StageBackendModels, Purpose: "backend models", MaxTokens: 4000, Component: prompt.ComponentBackend},
	{ID: StageBackendRoutes, Purpose: "backend routes", MaxTokens: 5000, Component: prompt.ComponentBackend},
	{ID: StageBackendMiddlewre, Purpose: "backend middleware/utils", MaxTokens: 3000, Component: prompt.ComponentBackend},
	{ID: StageFrontendSetup, Purpose: "frontend setup", MaxTokens: 3000, Component: prompt.ComponentFrontend},
	{ID: StageFrontendCore, Purpose: "frontend core", MaxTokens: 4000, Component: prompt.ComponentFrontend},
	{ID: StageFrontendPages, Purpose: "frontend pages", MaxTokens: 5000, Component: prompt.ComponentFrontend},
	{ID: StageFrontendComps, Purpose: "frontend components", MaxTokens: 4000, Component: prompt.ComponentFrontend},
	{ID: StageConfigDeploy, Purpose: "configuration/deployment", MaxTokens: 2000, Component: prompt.ComponentNone},
}

// includesImage reports whether a stage's user prompt should carry the
// mockup image — only stage 1 and stage 4.3 (frontend pages) need visual
// grounding per spec.md's pipeline table.
func includesImage(id StageID) bool {
	return id == StageArchitecture || id == StageFrontendPages
}

// usesPathPrefix reports whether a stage is a 3.x/4.x sub-stage that must
// receive the architecture-aware path prefix in its user prompt.
func usesPathPrefix(id StageID) bool {
	switch id {
	case StageBackendCore, StageBackendModels, StageBackendRoutes, StageBackendMiddlewre,
		StageFrontendSetup, StageFrontendCore, StageFrontendPages, StageFrontendComps:
		return true
	default:
		return false
	}
}
