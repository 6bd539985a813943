package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewDiagnosticSystem(level).WithOutput(&out, &errOut), &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticInfo)

	d.Info("migrating %s", "app:build")
	d.Warn("careful")
	d.Verbose("hidden")
	d.Debug("hidden")
	d.Error("boom: %d", 1)

	assert.Equal(t, "[INFO] migrating app:build\n[WARN] careful\n", out.String())
	assert.Equal(t, "[ERROR] boom: 1\n", errOut.String())
}

func TestDiagnosticSystem_Quiet(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticError)

	d.Info("notice")
	d.Header("HammerJS migration")
	d.Summary("Done", map[string]interface{}{"Targets": 1})
	d.Complete(false)
	d.Error("failed")

	assert.Empty(t, out.String())
	assert.Equal(t, "[ERROR] failed\n", errOut.String())
}

func TestDiagnosticSystem_Indent(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticVerbose)

	d.Indent()
	d.Verbose("nested")
	d.List("item")
	d.Unindent()
	d.Unindent()
	d.Info("top")

	assert.Equal(t, "  [VERBOSE] nested\n  - item\n[INFO] top\n", out.String())
}

func TestDiagnosticSystem_Summary(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Summary("Migration summary", map[string]interface{}{
		"Targets migrated": 2,
		"Files changed":    3,
		"Diagnostics":      0,
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"Migration summary",
		"   Diagnostics: 0",
		"   Files changed: 3",
		"   Targets migrated: 2",
	}, lines)
}

func TestDiagnosticSystem_SuccessAndSubsection(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Success("Updated %d files", 3)
	d.Subsection("Skipped targets")
	d.Indent()
	d.List("app:test")
	d.Unindent()

	assert.Equal(t, "[SUCCESS] Updated 3 files\n\nSkipped targets:\n  - app:test\n", out.String())
}

func TestDiagnosticSystem_Progress(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Header("HammerJS migration")
	d.WorkspacePath("/work/shop")
	d.TargetHeader("shop:build")
	d.TargetItem("analyzed 12 files")
	d.FileChange("/src/gesture-config.ts", true)
	d.FileChange("/src/app/app.module.ts", false)
	d.Complete(true)

	assert.Equal(t, "ngmigrate: HammerJS migration\n"+
		"Workspace: /work/shop\n\n"+
		"shop:build:\n"+
		"✓ analyzed 12 files\n"+
		"✏ Creating /src/gesture-config.ts\n"+
		"✏ Updating /src/app/app.module.ts\n"+
		"\nngmigrate: Dry run complete, no files were written.\n", out.String())
}
