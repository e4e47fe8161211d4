package pipeline

import "github.com/jonson42/mockforge/pkg/envelope"

// mergeResult is the outcome of merging every stage's file list.
type mergeResult struct {
	Files      []envelope.GeneratedFile
	Duplicates int
}

// mergeFiles merges per-stage file lists into one deduplicated, order-
// preserving list. First-write-wins: a path already seen from an earlier
// stage is kept, and the later duplicate is dropped but counted in
// Duplicates. That count is not recorded in any metric.
func mergeFiles(outcomes []StageOutcome) mergeResult {
	seen := make(map[string]bool)
	var result mergeResult

	for _, o := range outcomes {
		for _, f := range o.Files {
			if seen[f.Path] {
				result.Duplicates++
				continue
			}
			seen[f.Path] = true
			result.Files = append(result.Files, f)
		}
	}
	return result
}

// missingStages returns the stage IDs that produced zero files, either
// from an LLM failure or an envelope recovery that yielded an empty
// "files" array — the two cases spec.md treats identically.
func missingStages(outcomes []StageOutcome) []StageID {
	var missing []StageID
	for _, o := range outcomes {
		if len(o.Files) == 0 {
			missing = append(missing, o.Stage)
		}
	}
	return missing
}
