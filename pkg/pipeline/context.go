package pipeline

import (
	"fmt"
	"strings"
)

// buildStageContext formats completed stage outcomes into the "Stage
// context" string threaded into later stages' user prompts — the same
// role as the teacher's agentctx.BuildStageContext, generalized from
// investigation-stage final analyses to generated file manifests.
func buildStageContext(outcomes []StageOutcome) string {
	if len(outcomes) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, o := range outcomes {
		fmt.Fprintf(&sb, "### Stage: %s\n", o.Stage)
		if o.Err != nil {
			fmt.Fprintf(&sb, "(failed: %s — no files produced)\n\n", o.Err)
			continue
		}
		if len(o.Files) == 0 {
			sb.WriteString("(no files produced)\n\n")
			continue
		}
		for _, f := range o.Files {
			fmt.Fprintf(&sb, "- `%s`: %s\n", f.Path, f.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// planContext renders the architecture plan into the compact text form
// every later stage's "plan" input is built from.
func planContext(plan *ArchitecturePlan) string {
	if plan == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("### Architecture Plan\n")
	if plan.Summary != "" {
		sb.WriteString(plan.Summary)
		sb.WriteString("\n")
	}
	if len(plan.Pages) > 0 {
		fmt.Fprintf(&sb, "Pages: %s\n", strings.Join(plan.Pages, ", "))
	}
	if len(plan.Components) > 0 {
		fmt.Fprintf(&sb, "Components: %s\n", strings.Join(plan.Components, ", "))
	}
	if len(plan.Endpoints) > 0 {
		fmt.Fprintf(&sb, "API endpoints: %s\n", strings.Join(plan.Endpoints, ", "))
	}
	if len(plan.Tables) > 0 {
		fmt.Fprintf(&sb, "Database tables: %s\n", strings.Join(plan.Tables, ", "))
	}
	fmt.Fprintf(&sb, "Features: auth=%t realtime=%t file_upload=%t\n",
		plan.Features.Auth, plan.Features.Realtime, plan.Features.Upload)
	return sb.String()
}
