package models

import (
	"fmt"

	"github.com/toyz/ngmigrate/internal/tsast"
)

// NodeFailure records a location the migration could not rewrite safely.
// Node is nil for failures that concern a whole file.
type NodeFailure struct {
	Node     *tsast.Node
	FilePath string
	Message  string
}

// Diagnostic is a failure resolved to a position in the migrated file.
type Diagnostic struct {
	FilePath string         `json:"filePath"`
	Position *tsast.LineCol `json:"position,omitempty"`
	Message  string         `json:"message"`
}

// String renders the diagnostic as `path:line:col: message` with one-based
// line and column numbers.
func (d Diagnostic) String() string {
	if d.Position == nil {
		return fmt.Sprintf("%s: %s", d.FilePath, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.FilePath, d.Position.Line+1, d.Position.Character+1, d.Message)
}
