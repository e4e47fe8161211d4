package prompt

import (
	"strings"

	"github.com/jonson42/mockforge/pkg/stack"
)

// Builder builds all prompt text for the generation pipeline. Stateless
// beyond the template registry; thread-safe, like the teacher's
// PromptBuilder — all request-specific state comes in through parameters.
type Builder struct {
	registry *stack.Registry
}

// NewBuilder creates a Builder bound to a template registry. Panics if
// registry is nil — callers must provide a valid registry, mirroring the
// teacher's NewPromptBuilder nil-guard.
func NewBuilder(registry *stack.Registry) *Builder {
	if registry == nil {
		panic("prompt.NewBuilder: registry must not be nil")
	}
	return &Builder{registry: registry}
}

// SystemOptions configures BuildSystem. Each field independently toggles a
// section so the engine can pick small prompts for cheap stages (e.g.
// architecture analysis) and large prompts for code-emitting stages.
type SystemOptions struct {
	TechStack      stack.TechStack
	ProjectName    string
	AppType        string
	Component      Component // which framework template this stage needs, if any
	IncludeStyling bool
	IncludeTesting bool
	IncludeDocs    bool
}

// MinimalSystemOptions returns the "minimal" preset: styling/testing/docs
// off, no framework component.
func MinimalSystemOptions(ts stack.TechStack, projectName, appType string) SystemOptions {
	return SystemOptions{
		TechStack:   ts,
		ProjectName: projectName,
		AppType:     appType,
		Component:   ComponentNone,
	}
}

// FullFeaturedSystemOptions returns the "full_featured" preset: every
// optional section on, for the given framework component.
func FullFeaturedSystemOptions(ts stack.TechStack, projectName, appType string, component Component) SystemOptions {
	return SystemOptions{
		TechStack:      ts,
		ProjectName:    projectName,
		AppType:        appType,
		Component:      component,
		IncludeStyling: true,
		IncludeTesting: true,
		IncludeDocs:    true,
	}
}

// BuildSystem assembles the system prompt. Deterministic given its inputs
// and the registry's contents — a pure function, exercised directly by
// /prompt/preview without ever invoking the LLM.
func (b *Builder) BuildSystem(opts SystemOptions) (string, error) {
	var sb strings.Builder

	sb.WriteString(FormatProjectContextSection(opts.ProjectName, opts.AppType, opts.TechStack))
	sb.WriteString("\n")
	sb.WriteString(FormatResponseFormatSection())
	sb.WriteString("\n\n")
	sb.WriteString(FormatCoreRequirementsSection())
	sb.WriteString("\n\n")

	if opts.IncludeStyling && opts.Component == ComponentFrontend {
		tmpl, err := b.registry.Frontend(opts.TechStack.Frontend)
		if err != nil {
			return "", err
		}
		sb.WriteString(FormatStyleRequirementsSection(tmpl.StylingRequirements, ""))
		sb.WriteString("\n")
	}

	if opts.Component != ComponentNone {
		framework, err := FormatFrameworkSection(b.registry, opts.Component, opts.TechStack)
		if err != nil {
			return "", err
		}
		sb.WriteString(framework)
		sb.WriteString("\n")
	}

	if opts.IncludeTesting {
		sb.WriteString(FormatTestingRequirementsSection())
		sb.WriteString("\n")
	}

	if opts.IncludeDocs {
		sb.WriteString(FormatDocumentationRequirementsSection())
		sb.WriteString("\n")
	}

	sb.WriteString(FormatOutputChecklistSection())
	sb.WriteString("\n\n")
	sb.WriteString(FormatFinalInstructionSection())

	return sb.String(), nil
}

// UserOptions configures BuildUser.
type UserOptions struct {
	Description      string
	TechStack        stack.TechStack
	Features         []string
	StylingEmphasis  string
	StageContext     string // threaded output of prior stages (Glossary: "Stage context")
	IncludePrefixes  bool   // true for stages 3.x/4.x, which must see the concrete path prefixes
}

// BuildUser assembles the user prompt.
func (b *Builder) BuildUser(opts UserOptions) string {
	var sb strings.Builder

	sb.WriteString(FormatDescriptionSection(opts.Description, opts.Features))
	sb.WriteString("\n")

	if opts.StylingEmphasis != "" {
		sb.WriteString(FormatStyleRequirementsSection("", opts.StylingEmphasis))
		sb.WriteString("\n")
	}

	if opts.IncludePrefixes {
		prefixes := stack.ResolvePathPrefixes(opts.TechStack.Architecture)
		sb.WriteString(FormatPathPrefixSection(prefixes))
		sb.WriteString("\n")
	}

	sb.WriteString(FormatStageContextSection(opts.StageContext))

	return sb.String()
}
