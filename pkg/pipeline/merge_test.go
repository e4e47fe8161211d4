package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonson42/mockforge/pkg/envelope"
)

func TestMergeFilesFirstWriteWinsAndCountsDuplicates(t *testing.T) {
	outcomes := []StageOutcome{
		{Stage: StageArchitecture, Files: []envelope.GeneratedFile{{Path: "README.md", Content: "first"}}},
		{Stage: StageBackendCore, Files: []envelope.GeneratedFile{
			{Path: "src/server/app.py", Content: "app"},
			{Path: "README.md", Content: "second"},
		}},
	}

	result := mergeFiles(outcomes)

	assert.Equal(t, 1, result.Duplicates)
	content := assertPathContent(t, result.Files, "README.md")
	assert.Equal(t, "first", content)
}

func assertPathContent(t *testing.T, files []envelope.GeneratedFile, path string) string {
	t.Helper()
	for _, f := range files {
		if f.Path == path {
			return f.Content
		}
	}
	t.Fatalf("path %s not found", path)
	return ""
}

func TestMissingStagesCollectsEmptyAndFailedStages(t *testing.T) {
	outcomes := []StageOutcome{
		{Stage: StageArchitecture, Files: []envelope.GeneratedFile{{Path: "a"}}},
		{Stage: StageDatabase, Files: nil, Err: assertErr("boom")},
		{Stage: StageBackendCore, Files: nil},
	}

	missing := missingStages(outcomes)

	assert.Equal(t, []StageID{StageDatabase, StageBackendCore}, missing)
}

type testErr string

func (e testErr) Error() string { return string(e) }

func assertErr(msg string) error { return testErr(msg) }
