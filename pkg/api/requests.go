package api

import "github.com/jonson42/mockforge/pkg/stack"

// TechStackRequest is the wire shape of the tech_stack object spec.md §6.1
// names on every generation request.
type TechStackRequest struct {
	Frontend     stack.Frontend     `json:"frontend" validate:"required"`
	Backend      stack.Backend      `json:"backend" validate:"required"`
	Database     stack.Database     `json:"database" validate:"required"`
	Architecture stack.Architecture `json:"architecture,omitempty"`
}

// GenerateRequest is the body of POST /generate and POST /generate/chained.
// CustomPrompt is accepted only by /generate (spec.md §6.1).
type GenerateRequest struct {
	ImageData    string           `json:"image_data" validate:"required"`
	Description  string           `json:"description" validate:"required,min=10"`
	TechStack    TechStackRequest `json:"tech_stack" validate:"required"`
	ProjectName  string           `json:"project_name,omitempty"`
	CustomPrompt string           `json:"custom_prompt,omitempty"`
}

// PromptPreviewRequest is the body of POST /prompt/preview.
type PromptPreviewRequest struct {
	Description string           `json:"description" validate:"required"`
	TechStack   TechStackRequest `json:"tech_stack" validate:"required"`
	ProjectName string           `json:"project_name,omitempty"`
}

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Files []ValidateFileRequest `json:"files" validate:"required,dive"`
}

// ValidateFileRequest is one file entry in a ValidateRequest.
type ValidateFileRequest struct {
	Path    string `json:"path" validate:"required"`
	Content string `json:"content"`
}
