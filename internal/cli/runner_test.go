package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	migerrors "github.com/toyz/ngmigrate/internal/errors"
	"github.com/toyz/ngmigrate/internal/templates"
	"github.com/toyz/ngmigrate/internal/utils"
)

// writeWorkspace materializes a txtar fixture in a temporary directory.
func writeWorkspace(t *testing.T, name string) string {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name+".txtar"))
	require.NoError(t, err)
	dir := t.TempDir()
	for _, f := range ar.Files {
		p := filepath.Join(dir, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, f.Data, 0o644))
	}
	return dir
}

func readFile(t *testing.T, dir, p string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
	require.NoError(t, err)
	return string(data)
}

type runOutput struct {
	report      *Report
	err         error
	out         bytes.Buffer
	diagnostics bytes.Buffer
}

func run(t *testing.T, cfg Config) *runOutput {
	t.Helper()
	o := &runOutput{}
	var errOut bytes.Buffer
	diag := utils.NewDiagnosticSystem(utils.DiagnosticInfo).WithOutput(&o.out, &errOut)
	reporter := NewDiagnosticReporterTo(&o.diagnostics, false)
	o.report, o.err = NewRunner(cfg, diag, reporter).Run(context.Background())
	return o
}

func TestRunner_RemovesHammer(t *testing.T) {
	dir := writeWorkspace(t, "remove")
	cfg := DefaultConfig()
	cfg.Workspace = dir
	cfg.Report = filepath.Join(dir, "out", "report.json")

	o := run(t, cfg)
	require.NoError(t, o.err)

	main := readFile(t, dir, "src/main.ts")
	assert.NotContains(t, main, "hammerjs")
	assert.Contains(t, main, "bootstrapModule(AppModule)")

	module := readFile(t, dir, "src/app/app.module.ts")
	assert.NotContains(t, module, "GestureConfig")
	assert.NotContains(t, module, "HAMMER_GESTURE_CONFIG")
	assert.Contains(t, module, "providers: []")
	assert.Contains(t, module, "import { BrowserModule } from '@angular/platform-browser';")

	index := readFile(t, dir, "src/index.html")
	assert.NotContains(t, index, "hammer.min.js")
	assert.Contains(t, index, "<app-root></app-root>")

	manifest := readFile(t, dir, "package.json")
	assert.NotContains(t, manifest, "hammerjs")
	assert.Contains(t, manifest, `"tslib": "^1.10.0"`)

	r := o.report
	assert.True(t, r.PostMigration.RunPackageManager)
	assert.Len(t, r.Changes, 4)
	assert.Zero(t, r.DiagnosticCount())
	require.Len(t, r.Targets, 2)
	assert.Equal(t, "app:build", r.Targets[0].Target)
	assert.Equal(t, 3, r.Targets[0].Sources)
	assert.Equal(t, 1, r.Targets[0].Templates)
	assert.Equal(t, "app:test", r.Targets[1].Target)
	assert.True(t, r.Targets[1].Skipped)

	assert.Contains(t, o.out.String(), "Run your package manager")
	assert.Contains(t, o.out.String(), "Updating /package.json")
	assert.Contains(t, o.out.String(), "[SUCCESS] Updated ")
	assert.Contains(t, o.out.String(), "\nSkipped targets:\n  - app:test\n")
	assert.Empty(t, o.diagnostics.String())

	var written Report
	require.NoError(t, json.Unmarshal([]byte(readFile(t, dir, "out/report.json")), &written))
	_, err := uuid.Parse(written.RunID)
	assert.NoError(t, err)
	assert.Equal(t, r.RunID, written.RunID)
	assert.Len(t, written.Changes, 4)
	assert.False(t, written.FinishedAt.Before(written.StartedAt))
}

func TestRunner_DryRun(t *testing.T) {
	dir := writeWorkspace(t, "remove")
	before := readFile(t, dir, "src/main.ts")

	cfg := DefaultConfig()
	cfg.Workspace = dir
	cfg.DryRun = true

	o := run(t, cfg)
	require.NoError(t, o.err)
	assert.Equal(t, before, readFile(t, dir, "src/main.ts"))
	assert.Contains(t, readFile(t, dir, "package.json"), "hammerjs")

	require.Len(t, o.report.Changes, 4)
	var mainDiff string
	for _, c := range o.report.Changes {
		if c.Path == "/src/main.ts" {
			mainDiff = c.Diff
		}
	}
	assert.Contains(t, mainDiff, "-import 'hammerjs';")
	assert.Contains(t, o.out.String(), "Updating /src/main.ts")
}

func TestRunner_InlineTemplateKeepsHammer(t *testing.T) {
	dir := writeWorkspace(t, "inline_custom")
	cfg := DefaultConfig()
	cfg.Workspace = dir

	o := run(t, cfg)
	require.NoError(t, o.err)

	assert.Equal(t, templates.GestureConfigTemplate, readFile(t, dir, "src/gesture-config.ts"))
	module := readFile(t, dir, "src/app/app.module.ts")
	assert.Contains(t, module, "import { GestureConfig } from '../gesture-config';")
	assert.Contains(t, module, "imports: [BrowserModule, HammerModule]")
	assert.NotContains(t, module, "@angular/material/core")
	assert.Contains(t, readFile(t, dir, "src/main.ts"), "import 'hammerjs';")
	assert.Contains(t, readFile(t, dir, "package.json"), "hammerjs")

	assert.False(t, o.report.PostMigration.RunPackageManager)
	assert.Equal(t, 1, o.report.Targets[0].Templates)
	assert.Contains(t, o.out.String(), "ambiguous usage of HammerJS")
	assert.Contains(t, o.out.String(), "Creating /src/gesture-config.ts")
}

func TestRunner_ProjectFilter(t *testing.T) {
	dir := writeWorkspace(t, "remove")
	cfg := DefaultConfig()
	cfg.Workspace = dir
	cfg.Projects = []string{"other"}

	o := run(t, cfg)
	require.NoError(t, o.err)
	assert.Empty(t, o.report.Targets)
	assert.Contains(t, o.out.String(), "No targets to migrate")
	// Without a target using HammerJS the dependency is still dropped.
	assert.True(t, o.report.PostMigration.RunPackageManager)
}

func TestRunner_Errors(t *testing.T) {
	t.Run("unsupported version", func(t *testing.T) {
		dir := writeWorkspace(t, "remove")
		cfg := DefaultConfig()
		cfg.Workspace = dir
		cfg.TargetVersion = "8.2.0"

		o := run(t, cfg)
		require.Error(t, o.err)
		var merr migerrors.MigrationError
		require.ErrorAs(t, o.err, &merr)
		assert.Equal(t, migerrors.ConfigurationErrorCode, merr.ErrorCode())
		assert.Contains(t, readFile(t, dir, "package.json"), "hammerjs")
	})

	t.Run("missing workspace descriptor", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace = t.TempDir()
		cfg.Report = filepath.Join(t.TempDir(), "report.json")

		o := run(t, cfg)
		require.Error(t, o.err)
		var merr migerrors.MigrationError
		require.ErrorAs(t, o.err, &merr)
		assert.Equal(t, migerrors.WorkspaceErrorCode, merr.ErrorCode())

		data, err := os.ReadFile(cfg.Report)
		require.NoError(t, err)
		var written Report
		require.NoError(t, json.Unmarshal(data, &written))
		require.Len(t, written.Errors, 1)
		assert.Contains(t, written.Errors[0], "failed to load workspace")
	})

	t.Run("missing directory", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace = filepath.Join(t.TempDir(), "missing")

		o := run(t, cfg)
		require.Error(t, o.err)
		assert.True(t, strings.Contains(o.err.Error(), "missing"))
	})
}
