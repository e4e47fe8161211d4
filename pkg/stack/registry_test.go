package stack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupUnknownFrontendFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Frontend(Frontend("sveltekit"))
	assert.Error(t, err)
	var unknown *ErrUnknownTemplate
	assert.ErrorAs(t, err, &unknown)
}

func TestRegistryLookupKnownBackendNeverEmpty(t *testing.T) {
	r := NewRegistry()
	for _, id := range r.RegisteredBackends() {
		tmpl, err := r.Backend(id)
		require.NoError(t, err)
		assert.NotEmpty(t, tmpl.CoreInstructions)
	}
}

func TestLoadOverridesMissingFileIsNotAnError(t *testing.T) {
	r := NewRegistry()
	err := r.LoadOverrides(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.NoError(t, err)
}

func TestLoadOverridesMergesOverBuiltin(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	content := `
frontend:
  react:
    core_instructions: "custom react guidance"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, r.LoadOverrides(path))

	tmpl, err := r.Frontend(FrontendReact)
	require.NoError(t, err)
	assert.Equal(t, "custom react guidance", tmpl.CoreInstructions)
	// Dependencies from the built-in should survive since the override only
	// touched core_instructions.
	assert.NotEmpty(t, tmpl.Dependencies)
}
