package templates

import (
	_ "embed"
)

// GestureConfigTemplate is the TypeScript source installed into projects
// that rely on the custom gestures.
//
//go:embed files/gesture-config.ts.tmpl
var GestureConfigTemplate string

// Resource is an HTML template, either a standalone file or the inline
// `template` of a component.
type Resource struct {
	FilePath string
	Content  string
	Inline   bool
	// Start is the offset of Content within FilePath for inline templates.
	Start int
}
