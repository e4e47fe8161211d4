// Package prompt assembles the system and user prompt strings sent to the
// multimodal LLM for each pipeline stage. Every section is a small pure
// function of its inputs — this keeps prompt assembly independently
// testable and lets the engine include or omit sections per stage without
// ever hard-coding stack vocabulary into the section text itself (stack
// details always arrive through the template registry).
package prompt

import (
	"fmt"
	"strings"

	"github.com/jonson42/mockforge/pkg/stack"
)

// FormatProjectContextSection builds the "project context" section: project
// name, app type, and the stack triple.
func FormatProjectContextSection(projectName, appType string, ts stack.TechStack) string {
	var sb strings.Builder
	sb.WriteString("## Project Context\n\n")
	fmt.Fprintf(&sb, "**Project Name:** %s\n", projectName)
	fmt.Fprintf(&sb, "**Application Type:** %s\n", appType)
	fmt.Fprintf(&sb, "**Frontend:** %s\n", ts.Frontend)
	fmt.Fprintf(&sb, "**Backend:** %s\n", ts.Backend)
	fmt.Fprintf(&sb, "**Database:** %s\n", ts.Database)
	fmt.Fprintf(&sb, "**Architecture:** %s\n", ts.Architecture)
	return sb.String()
}

// responseFormatTemplate is the strict JSON envelope contract every LLM call
// must honor (spec §6.2). It is identical across every stage and every
// stack — this section never varies.
const responseFormatTemplate = `## Response Format

You MUST respond with a single JSON object and nothing else (no prose before
or after it, no markdown code fences unless the whole response is inside one
fenced block):

` + "```" + `json
{
  "files": [
    {"path": "relative/path/to/file.ext", "content": "full file contents", "description": "short note"}
  ],
  "dependencies": {"frontend": ["pkg@version"], "backend": ["pkg@version"], "database": ["pkg@version"]},
  "setup_instructions": ["step one", "step two"],
  "project_structure": {"dir": ["child", "child"]}
}
` + "```" + `

"files" is the only mandatory field. Every other field defaults to empty if
omitted. Every file's "content" must be the complete, final file — never a
placeholder, a "// TODO: implement" stub, or a truncated excerpt.`

// FormatResponseFormatSection builds the response-format section.
func FormatResponseFormatSection() string {
	return responseFormatTemplate
}

const coreRequirementsTemplate = `## Core Requirements

- **Completeness.** Never emit placeholder content, "TODO" stubs, or
  truncated files. Every file in "files" must be immediately usable.
- **Security.** Validate all external input at the boundary; never
  interpolate untrusted input directly into a query string or shell
  command; never hard-code secrets — read them from environment
  variables.
- **Architectural layering.** Keep routing, business logic, and data
  access in separate files/modules; do not collapse a multi-file
  responsibility into a single monolithic file.
- **Syntax correctness.** Every file must be syntactically valid for its
  declared language — it will be checked after generation.`

// FormatCoreRequirementsSection builds the always-on core-requirements block.
func FormatCoreRequirementsSection() string {
	return coreRequirementsTemplate
}

// FormatStyleRequirementsSection builds the optional styling section from
// the frontend template's styling guidance plus an optional emphasis note.
func FormatStyleRequirementsSection(stylingRequirements, emphasis string) string {
	var sb strings.Builder
	sb.WriteString("## Style Requirements\n\n")
	if stylingRequirements != "" {
		sb.WriteString(stylingRequirements)
		sb.WriteString("\n")
	}
	if emphasis != "" {
		fmt.Fprintf(&sb, "\nAdditional styling emphasis: %s\n", emphasis)
	}
	return sb.String()
}

// Component selects which framework-specific template a stage prompt needs.
type Component string

const (
	ComponentNone     Component = ""
	ComponentBackend  Component = "backend"
	ComponentFrontend Component = "frontend"
	ComponentDatabase Component = "database"
)

// FormatFrameworkSection delegates to the template registry and injects the
// full template string — never truncated (Design Notes §9(b)). A lookup
// failure for an unknown identifier is forbidden from falling back silently,
// so it is surfaced as an error for the caller to fail closed on.
func FormatFrameworkSection(registry *stack.Registry, component Component, ts stack.TechStack) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Framework-Specific Guidance\n\n")

	switch component {
	case ComponentBackend:
		tmpl, err := registry.Backend(ts.Backend)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "### Backend (%s)\n\n", ts.Backend)
		sb.WriteString(tmpl.CoreInstructions)
		sb.WriteString("\n\n**Dependencies:** ")
		sb.WriteString(strings.Join(tmpl.Dependencies, ", "))
		sb.WriteString("\n")
	case ComponentFrontend:
		tmpl, err := registry.Frontend(ts.Frontend)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "### Frontend (%s)\n\n", ts.Frontend)
		sb.WriteString(tmpl.CoreInstructions)
		sb.WriteString("\n\n**Dependencies:** ")
		sb.WriteString(strings.Join(tmpl.Dependencies, ", "))
		sb.WriteString("\n")
	case ComponentDatabase:
		tmpl, err := registry.Database(ts.Database)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "### Database (%s)\n\n", ts.Database)
		sb.WriteString(tmpl.CoreInstructions)
		sb.WriteString("\n")
	default:
		sb.WriteString("No framework-specific component applies to this stage.\n")
	}

	return sb.String(), nil
}

// FormatTestingRequirementsSection builds the optional testing section.
func FormatTestingRequirementsSection() string {
	return "## Testing Requirements\n\nInclude at least one test file per " +
		"major module demonstrating the module's primary happy path.\n"
}

// FormatDocumentationRequirementsSection builds the optional docs section.
func FormatDocumentationRequirementsSection() string {
	return "## Documentation Requirements\n\nInclude a top-level README.md " +
		"describing setup, environment variables, and how to run the project.\n"
}

// FormatOutputChecklistSection builds the self-verification checklist.
func FormatOutputChecklistSection() string {
	return `## Output Checklist

Before emitting your response, verify:
- [ ] Every file path is unique.
- [ ] No file contains placeholder or stub content.
- [ ] The response is a single JSON object matching the contract above.
- [ ] Every path matches the architecture's required prefix convention.
- [ ] Every declared dependency has a pinned version.`
}

// FormatFinalInstructionSection builds the closing instruction.
func FormatFinalInstructionSection() string {
	return "## Begin Generation\n\nProduce the response now."
}

// FormatStageContextSection wraps the threaded prior-stage context (the
// "Stage context" glossary term) into a section. An empty context means
// this is the first stage of the pipeline.
func FormatStageContextSection(stageContext string) string {
	if stageContext == "" {
		return "## Previous Stage Output\nNo previous stage output is available; this is the first stage.\n"
	}
	var sb strings.Builder
	sb.WriteString("## Previous Stage Output\n")
	sb.WriteString(stageContext)
	sb.WriteString("\n")
	return sb.String()
}

// FormatPathPrefixSection states the concrete path-prefix example the stage
// must follow. Stating the prefix as a narrative description alone is known
// to produce mixed output, so the prefix is always given as a literal
// string example here.
func FormatPathPrefixSection(p stack.PathPrefixes) string {
	var sb strings.Builder
	sb.WriteString("## Required Path Prefixes\n\n")
	fmt.Fprintf(&sb, "- Backend files: `%s`\n", p.BackendRoot)
	fmt.Fprintf(&sb, "- Frontend entry point: `%s`, `%s`\n", p.FrontendEntryMain, p.FrontendEntryApp)
	fmt.Fprintf(&sb, "- Frontend pages: `%s`\n", p.FrontendPages)
	fmt.Fprintf(&sb, "- Frontend components: `%s`\n", p.FrontendComponents)
	fmt.Fprintf(&sb, "- Frontend hooks: `%s`\n", p.FrontendHooks)
	fmt.Fprintf(&sb, "- Frontend utils: `%s`\n", p.FrontendUtils)
	return sb.String()
}

// FormatDescriptionSection builds the user-supplied description block.
func FormatDescriptionSection(description string, features []string) string {
	var sb strings.Builder
	sb.WriteString("## Description\n\n")
	sb.WriteString(description)
	sb.WriteString("\n")
	if len(features) > 0 {
		sb.WriteString("\n**Requested features:** ")
		sb.WriteString(strings.Join(features, ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}
