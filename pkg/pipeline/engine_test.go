package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonson42/mockforge/pkg/cache"
	"github.com/jonson42/mockforge/pkg/llmclient"
	"github.com/jonson42/mockforge/pkg/metrics"
	"github.com/jonson42/mockforge/pkg/prompt"
	"github.com/jonson42/mockforge/pkg/stack"
)

// scriptedCompleter returns a fixed response (or error) per stage purpose,
// keyed by call order, so tests can script exactly one stage's failure
// without needing a real model endpoint.
type scriptedCompleter struct {
	calls     int
	responses map[int]string
	errs      map[int]error
}

func (s *scriptedCompleter) Complete(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
	i := s.calls
	s.calls++
	if err, ok := s.errs[i]; ok {
		return nil, err
	}
	raw, ok := s.responses[i]
	if !ok {
		raw = `{"files":[{"path":"generated/file.txt","content":"x","description":"d"}]}`
	}
	return &llmclient.Response{RawText: raw}, nil
}

func testEngine(t *testing.T, completer completer) *Engine {
	t.Helper()
	return &Engine{
		Builder:  prompt.NewBuilder(stack.NewRegistry()),
		LLM:      completer,
		Registry: stack.NewRegistry(),
		Metrics:  metrics.New(),
		Cancel:   NewCancelRegistry(),
	}
}

func testRequest() Request {
	return Request{
		Description: "a task manager",
		TechStack: stack.TechStack{
			Frontend:     stack.FrontendReact,
			Backend:      stack.BackendFastAPI,
			Database:     stack.DatabasePostgreSQL,
			Architecture: stack.ArchitectureMonolithic,
		},
		ProjectName: "task-manager",
	}
}

func archPlanJSON() string {
	plan := ArchitecturePlan{Pages: []string{"home"}, Summary: "a task manager"}
	b, _ := json.Marshal(plan)
	return string(b)
}

func TestRunChainedAbortsWholePipelineOnArchitectureStageFailure(t *testing.T) {
	c := &scriptedCompleter{errs: map[int]error{0: fmt.Errorf("upstream unavailable")}}
	e := testEngine(t, c)

	resp, err := e.RunChained(context.Background(), "req-1", testRequest())

	require.Error(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, 1, c.calls, "later stages must never be called after a fail-fast stage failure")
}

func TestRunChainedContinuesPastLaterStageFailure(t *testing.T) {
	c := &scriptedCompleter{
		responses: map[int]string{0: archPlanJSON()},
		errs:      map[int]error{1: fmt.Errorf("transient LLM error")},
	}
	e := testEngine(t, c)

	resp, err := e.RunChained(context.Background(), "req-2", testRequest())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, len(stageTable), c.calls, "every stage must still run despite a non-fail-fast failure")
}

func TestRunChainedMergesFilesAcrossStages(t *testing.T) {
	c := &scriptedCompleter{responses: map[int]string{0: archPlanJSON()}}
	e := testEngine(t, c)

	resp, err := e.RunChained(context.Background(), "req-3", testRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Files)
}

func TestRunChainedSurfacesSyntaxAdvisoriesInSetupInstructions(t *testing.T) {
	c := &scriptedCompleter{
		responses: map[int]string{
			0: archPlanJSON(),
			1: `{"files":[{"path":"generated/bad.json","content":"{not valid json","description":"d"}]}`,
		},
	}
	e := testEngine(t, c)

	resp, err := e.RunChained(context.Background(), "req-4", testRequest())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	found := false
	for _, instr := range resp.SetupInstructions {
		if strings.Contains(instr, "syntax advisory") && strings.Contains(instr, "generated/bad.json") {
			found = true
		}
	}
	assert.True(t, found, "expected a syntax advisory for the invalid JSON file, got %v", resp.SetupInstructions)
}

func TestRunSingleStageParsesEnvelopeAndSkipsCacheForCustomPrompt(t *testing.T) {
	c := &scriptedCompleter{}
	e := testEngine(t, c)
	e.Cache = cache.NewMemoryStore(cache.DefaultConfig())
	req := testRequest()
	req.CustomPrompt = "produce a single file"

	resp, err := e.RunSingleStage(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "generated/file.txt", resp.Files[0].Path)

	stats := e.Cache.Stats()
	assert.Equal(t, int64(0), stats.Misses, "a custom-prompt request must not look up the cache")
	assert.Equal(t, 0, stats.Size, "a custom-prompt response must not be cached")
}
