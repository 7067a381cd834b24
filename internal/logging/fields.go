// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError    = "error"
	FieldPath     = "path"
	FieldInput    = "input"
	FieldOutput   = "output"
	FieldBytes    = "bytes"
	FieldDuration = "duration"

	// Remote fields.
	FieldRepo    = "repo"
	FieldFolder  = "folder"
	FieldStatus  = "status"
	FieldOutcome = "outcome"
	FieldEntries = "entries"
	FieldName    = "name"

	// Editor and persistence fields.
	FieldState    = "state"
	FieldBlocks   = "blocks"
	FieldInterval = "interval"
	FieldWarnings = "warnings"
	FieldRestored = "restored"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
