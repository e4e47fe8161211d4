// Package stack defines the closed set of technology-stack identifiers the
// generation pipeline accepts, and the template registry that turns those
// identifiers into framework-accurate prompt guidance.
package stack

import "fmt"

// Frontend is one of an enumerated closed set of frontend identifiers.
type Frontend string

const (
	FrontendReact   Frontend = "react"
	FrontendVue     Frontend = "vue"
	FrontendAngular Frontend = "angular"
	FrontendHTML    Frontend = "html"
)

// IsValid reports whether f is a recognized frontend identifier.
func (f Frontend) IsValid() bool {
	switch f {
	case FrontendReact, FrontendVue, FrontendAngular, FrontendHTML:
		return true
	default:
		return false
	}
}

// Backend is one of the enumerated server-side framework identifiers.
type Backend string

const (
	BackendFastAPI Backend = "fastapi"
	BackendFlask   Backend = "flask"
	BackendExpress Backend = "express"
	BackendDjango  Backend = "django"
	BackendDotNet  Backend = "dotnet"
)

// IsValid reports whether b is a recognized backend identifier.
func (b Backend) IsValid() bool {
	switch b {
	case BackendFastAPI, BackendFlask, BackendExpress, BackendDjango, BackendDotNet:
		return true
	default:
		return false
	}
}

// Database is one of the enumerated storage engine identifiers.
type Database string

const (
	DatabasePostgreSQL Database = "postgresql"
	DatabaseMySQL      Database = "mysql"
	DatabaseMongoDB    Database = "mongodb"
	DatabaseSQLite     Database = "sqlite"
	DatabaseRedis      Database = "redis"
)

// IsValid reports whether d is a recognized database identifier.
func (d Database) IsValid() bool {
	switch d {
	case DatabasePostgreSQL, DatabaseMySQL, DatabaseMongoDB, DatabaseSQLite, DatabaseRedis:
		return true
	default:
		return false
	}
}

// Architecture selects the path layout convention stages 3.x/4.x must use.
type Architecture string

const (
	// ArchitectureMonolithic is the default when unspecified.
	ArchitectureMonolithic  Architecture = "monolithic"
	ArchitectureMicroservices Architecture = "microservices"
)

// IsValid reports whether a is a recognized architecture identifier.
// The empty string is treated as valid — callers resolve it to the default
// (monolithic) via Normalize.
func (a Architecture) IsValid() bool {
	switch a {
	case "", ArchitectureMonolithic, ArchitectureMicroservices:
		return true
	default:
		return false
	}
}

// TechStack is the configuration carried end-to-end through the pipeline.
type TechStack struct {
	Frontend     Frontend     `json:"frontend"`
	Backend      Backend      `json:"backend"`
	Database     Database     `json:"database"`
	Architecture Architecture `json:"architecture,omitempty"`
}

// Normalize resolves an empty Architecture to its default value.
func (t TechStack) Normalize() TechStack {
	if t.Architecture == "" {
		t.Architecture = ArchitectureMonolithic
	}
	return t
}

// Validate checks that every field of the stack is a recognized identifier.
// An unknown identifier must fail validation before any LLM call is made.
func (t TechStack) Validate() error {
	if !t.Frontend.IsValid() {
		return fmt.Errorf("unknown frontend identifier: %q", t.Frontend)
	}
	if !t.Backend.IsValid() {
		return fmt.Errorf("unknown backend identifier: %q", t.Backend)
	}
	if !t.Database.IsValid() {
		return fmt.Errorf("unknown database identifier: %q", t.Database)
	}
	if !t.Architecture.IsValid() {
		return fmt.Errorf("unknown architecture identifier: %q", t.Architecture)
	}
	return nil
}

// PathPrefixes describes the concrete path prefixes stages 3.x/4.x must be
// told to use for a given architecture — stating the prefix as a narrative
// description alone is known to produce mixed output, so callers interpolate
// these fields verbatim into the user prompt.
type PathPrefixes struct {
	BackendRoot      string
	FrontendEntryMain string
	FrontendEntryApp  string
	FrontendPages     string
	FrontendComponents string
	FrontendHooks      string
	FrontendUtils      string
}

// ResolvePathPrefixes returns the concrete path-prefix set for an architecture.
func ResolvePathPrefixes(arch Architecture) PathPrefixes {
	if arch == ArchitectureMicroservices {
		return PathPrefixes{
			BackendRoot:        "backend/",
			FrontendEntryMain:  "frontend/src/main.*",
			FrontendEntryApp:   "frontend/src/App.*",
			FrontendPages:      "frontend/src/pages/",
			FrontendComponents: "frontend/src/components/",
			FrontendHooks:      "frontend/src/hooks/",
			FrontendUtils:      "frontend/src/utils/",
		}
	}
	return PathPrefixes{
		BackendRoot:        "src/server/",
		FrontendEntryMain:  "src/main.*",
		FrontendEntryApp:   "src/App.*",
		FrontendPages:      "src/client/pages/",
		FrontendComponents: "src/client/components/",
		FrontendHooks:      "src/client/hooks/",
		FrontendUtils:      "src/client/utils/",
	}
}
