// Package validator runs deliberately weak, advisory-only syntax checks over
// generated files. A failing check never discards a file — false positives
// here must never cost the user otherwise-valid output (Design Notes §9);
// results are surfaced as an advisory signal, not a gate.
package validator

import (
	"path/filepath"
	"strings"
)

// FileInput is the minimal shape the validator needs from a generated file.
type FileInput struct {
	Path    string
	Content string
}

// FileError attaches a validation failure to the file path it came from.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the validator's non-blocking report.
type Result struct {
	Valid          bool        `json:"valid"`
	TotalFiles     int         `json:"total_files"`
	ValidatedFiles int         `json:"validated_files"`
	Errors         []FileError `json:"errors"`
}

// jsLikeExtensions are checked with the shared delimiter/quote/comment-aware
// scan — spec §4.5 groups them under one dispatch entry.
var jsLikeExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".mjs": true, ".cjs": true,
}

// Validate checks every file's declared-language syntax and returns a
// single aggregate report. It never removes or mutates files — callers
// always get back every file regardless of validation outcome.
func Validate(files []FileInput) Result {
	result := Result{Valid: true, TotalFiles: len(files)}

	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Path))

		var errs []string
		checked := true

		switch {
		case ext == ".py":
			errs = validatePython(f.Content)
		case jsLikeExtensions[ext]:
			errs = validateJSLike(f.Content)
		case ext == ".json":
			errs = validateJSON(f.Content)
		case ext == ".html" || ext == ".htm":
			errs = validateHTML(f.Content)
		case ext == ".css":
			errs = validateCSS(f.Content)
		default:
			checked = false
		}

		if checked {
			result.ValidatedFiles++
		}

		for _, msg := range errs {
			result.Valid = false
			result.Errors = append(result.Errors, FileError{Path: f.Path, Message: msg})
		}
	}

	return result
}
