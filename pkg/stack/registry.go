package stack

import (
	"fmt"
	"os"
	"sync"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTemplate is returned by a Registry lookup for an identifier with
// no registered template. Callers are forbidden from falling back silently.
type ErrUnknownTemplate struct {
	Kind string
	ID   string
}

func (e *ErrUnknownTemplate) Error() string {
	return fmt.Sprintf("no %s template registered for identifier %q", e.Kind, e.ID)
}

// Registry holds, keyed by stack identifier, the three template mappings
// (frontend/backend/database). It is a closed mapping from an enumerated
// identifier to a plain record — new stacks are added as entries, never by
// subclassing.
type Registry struct {
	mu       sync.RWMutex
	frontend map[Frontend]Template
	backend  map[Backend]Template
	database map[Database]Template
}

// NewRegistry builds a Registry seeded with the built-in templates.
func NewRegistry() *Registry {
	return &Registry{
		frontend: builtinFrontendTemplates(),
		backend:  builtinBackendTemplates(),
		database: builtinDatabaseTemplates(),
	}
}

// overrideFile is the YAML shape accepted for an optional templates.yaml in
// the config directory.
type overrideFile struct {
	Frontend map[Frontend]Template `yaml:"frontend"`
	Backend  map[Backend]Template  `yaml:"backend"`
	Database map[Database]Template `yaml:"database"`
}

// LoadOverrides merges an optional templates YAML file at path over the
// built-in registry. A missing file is not an error — the registry simply
// keeps the built-ins, mirroring the teacher's tolerant config loading for
// optional YAML files.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading template overrides: %w", err)
	}

	var override overrideFile
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parsing template overrides: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, tmpl := range override.Frontend {
		merged := r.frontend[id]
		if err := mergo.Merge(&merged, tmpl, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging frontend template %q: %w", id, err)
		}
		r.frontend[id] = merged
	}
	for id, tmpl := range override.Backend {
		merged := r.backend[id]
		if err := mergo.Merge(&merged, tmpl, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging backend template %q: %w", id, err)
		}
		r.backend[id] = merged
	}
	for id, tmpl := range override.Database {
		merged := r.database[id]
		if err := mergo.Merge(&merged, tmpl, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging database template %q: %w", id, err)
		}
		r.database[id] = merged
	}
	return nil
}

// Frontend looks up the template for a frontend identifier.
func (r *Registry) Frontend(id Frontend) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.frontend[id]
	if !ok {
		return Template{}, &ErrUnknownTemplate{Kind: "frontend", ID: string(id)}
	}
	return t, nil
}

// Backend looks up the template for a backend identifier.
func (r *Registry) Backend(id Backend) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.backend[id]
	if !ok {
		return Template{}, &ErrUnknownTemplate{Kind: "backend", ID: string(id)}
	}
	return t, nil
}

// Database looks up the template for a database identifier.
func (r *Registry) Database(id Database) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.database[id]
	if !ok {
		return Template{}, &ErrUnknownTemplate{Kind: "database", ID: string(id)}
	}
	return t, nil
}

// RegisteredFrontends returns every frontend identifier with a template,
// used by tests asserting stack-accurate generation across the full set.
func (r *Registry) RegisteredFrontends() []Frontend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]Frontend, 0, len(r.frontend))
	for id := range r.frontend {
		ids = append(ids, id)
	}
	return ids
}

// RegisteredBackends returns every backend identifier with a template.
func (r *Registry) RegisteredBackends() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]Backend, 0, len(r.backend))
	for id := range r.backend {
		ids = append(ids, id)
	}
	return ids
}
