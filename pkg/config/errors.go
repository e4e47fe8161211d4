package config

import "errors"

var (
	// ErrMissingRequiredField indicates a required environment variable or
	// config field was empty.
	ErrMissingRequiredField = errors.New("missing required configuration field")

	// ErrInvalidValue indicates a field failed its validation constraint.
	ErrInvalidValue = errors.New("invalid configuration value")
)
