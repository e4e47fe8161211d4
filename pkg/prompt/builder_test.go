package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonson42/mockforge/pkg/stack"
)

func testStack() stack.TechStack {
	return stack.TechStack{
		Frontend:     stack.FrontendReact,
		Backend:      stack.BackendFastAPI,
		Database:     stack.DatabasePostgreSQL,
		Architecture: stack.ArchitectureMonolithic,
	}
}

func TestBuildSystemIsDeterministic(t *testing.T) {
	b := NewBuilder(stack.NewRegistry())
	opts := FullFeaturedSystemOptions(testStack(), "task-manager", "web application", ComponentBackend)

	first, err := b.BuildSystem(opts)
	require.NoError(t, err)
	second, err := b.BuildSystem(opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestTemplateInjectionNeverTruncated directly tests the historical [:500]
// truncation bug Design Notes §9(b) warns about: every registered backend
// and frontend template's full CoreInstructions string must appear intact
// in the assembled system prompt.
func TestTemplateInjectionNeverTruncated(t *testing.T) {
	registry := stack.NewRegistry()
	b := NewBuilder(registry)

	for _, id := range registry.RegisteredBackends() {
		ts := testStack()
		ts.Backend = id
		tmpl, err := registry.Backend(id)
		require.NoError(t, err)

		opts := FullFeaturedSystemOptions(ts, "proj", "web application", ComponentBackend)
		prompt, err := b.BuildSystem(opts)
		require.NoError(t, err)
		assert.True(t, strings.Contains(prompt, tmpl.CoreInstructions),
			"backend %s: full core instructions must be injected, not truncated", id)
	}

	for _, id := range registry.RegisteredFrontends() {
		ts := testStack()
		ts.Frontend = id
		tmpl, err := registry.Frontend(id)
		require.NoError(t, err)

		opts := FullFeaturedSystemOptions(ts, "proj", "web application", ComponentFrontend)
		prompt, err := b.BuildSystem(opts)
		require.NoError(t, err)
		assert.True(t, strings.Contains(prompt, tmpl.CoreInstructions),
			"frontend %s: full core instructions must be injected, not truncated", id)
	}
}

func TestBuildSystemFailsClosedOnUnknownBackend(t *testing.T) {
	b := NewBuilder(stack.NewRegistry())
	ts := testStack()
	ts.Backend = stack.Backend("spring-boot")

	opts := FullFeaturedSystemOptions(ts, "proj", "web application", ComponentBackend)
	_, err := b.BuildSystem(opts)
	assert.Error(t, err)
}

func TestBuildUserIsPureFunction(t *testing.T) {
	b := NewBuilder(stack.NewRegistry())
	opts := UserOptions{
		Description:     "task manager with authentication",
		TechStack:       testStack(),
		IncludePrefixes: true,
	}

	first := b.BuildUser(opts)
	second := b.BuildUser(opts)
	assert.Equal(t, first, second)
}

func TestBuildUserMonolithicNeverMentionsMicroservicesPrefix(t *testing.T) {
	b := NewBuilder(stack.NewRegistry())
	opts := UserOptions{
		Description:     "task manager",
		TechStack:       testStack(),
		IncludePrefixes: true,
	}
	prompt := b.BuildUser(opts)
	assert.Contains(t, prompt, "src/server/")
	assert.NotContains(t, prompt, "backend/`")
}

func TestBuildUserFirstStageHasNoPreviousContext(t *testing.T) {
	b := NewBuilder(stack.NewRegistry())
	prompt := b.BuildUser(UserOptions{Description: "x", TechStack: testStack()})
	assert.Contains(t, prompt, "first stage")
}
