package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	migerrors "github.com/toyz/ngmigrate/internal/errors"
	"github.com/toyz/ngmigrate/internal/models"
	"github.com/toyz/ngmigrate/internal/tsast"
)

func TestDiagnosticReporter_ReportDiagnostics(t *testing.T) {
	var out bytes.Buffer
	r := NewDiagnosticReporterTo(&out, false)

	r.ReportDiagnostics("app:build", nil)
	assert.Empty(t, out.String())

	r.ReportDiagnostics("app:build", []models.Diagnostic{
		{FilePath: "/src/app/gestures.ts", Position: &tsast.LineCol{Line: 1, Character: 24}, Message: "Unable to delete reference."},
		{FilePath: "/src/main.ts", Message: "Could not setup HammerModule."},
	})
	assert.Contains(t, out.String(), "app:build needs manual changes:")
	assert.Contains(t, out.String(), "! /src/app/gestures.ts:2:25: Unable to delete reference.\n")
	assert.Contains(t, out.String(), "! /src/main.ts: Could not setup HammerModule.\n")
}

func TestDiagnosticReporter_ReportError(t *testing.T) {
	var out bytes.Buffer
	r := NewDiagnosticReporterTo(&out, true)

	err := migerrors.WrapManifestError("/package.json", fmt.Errorf("unexpected EOF")).
		WithContext("dependency", "hammerjs")
	r.ReportError(fmt.Errorf("post migration: %w", err))

	output := out.String()
	assert.Contains(t, output, "Type: Manifest Error")
	assert.Contains(t, output, "Location: /package.json")
	assert.Contains(t, output, "   Dependency: hammerjs")
	assert.Contains(t, output, "   1. unexpected EOF")
	assert.Contains(t, output, `Remove the "hammerjs" dependency manually`)
}

func TestDiagnosticReporter_ReportMultipleErrors(t *testing.T) {
	var out bytes.Buffer
	r := NewDiagnosticReporterTo(&out, false)

	errs := &migerrors.MultipleErrors{}
	errs.Add(migerrors.EditConflictError("/src/a.ts", fmt.Errorf("overlap")))
	errs.Add(migerrors.WrapParseError("/src/b.ts", fmt.Errorf("syntax")))
	r.ReportError(errs)

	output := out.String()
	assert.Contains(t, output, "Type: Edit Conflict Error")
	assert.Contains(t, output, "Type: Syntax Error")
	assert.NotContains(t, output, "Error Chain", "the chain is verbose only")
}

func TestDiagnosticReporter_ReportPlainError(t *testing.T) {
	var out bytes.Buffer
	NewDiagnosticReporterTo(&out, false).ReportError(fmt.Errorf("boom"))
	assert.Contains(t, out.String(), "Message: boom")
}
