package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	migerrors "github.com/toyz/ngmigrate/internal/errors"
	"github.com/toyz/ngmigrate/internal/migration"
	"github.com/toyz/ngmigrate/internal/models"
	"github.com/toyz/ngmigrate/internal/utils/fileops"
)

// Report summarizes one migration run. It is written as JSON when the run
// is configured with a report path.
type Report struct {
	RunID         string                        `json:"runId"`
	Workspace     string                        `json:"workspace"`
	TargetVersion string                        `json:"targetVersion"`
	DryRun        bool                          `json:"dryRun"`
	StartedAt     time.Time                     `json:"startedAt"`
	FinishedAt    time.Time                     `json:"finishedAt"`
	Targets       []TargetReport                `json:"targets"`
	Changes       []fileops.FileChange          `json:"changes"`
	PostMigration migration.PostMigrationAction `json:"postMigration"`
	Errors        []string                      `json:"errors,omitempty"`
}

// TargetReport is the outcome of one target.
type TargetReport struct {
	Target      string              `json:"target"`
	Skipped     bool                `json:"skipped,omitempty"`
	Sources     int                 `json:"sources"`
	Templates   int                 `json:"templates"`
	Diagnostics []models.Diagnostic `json:"diagnostics"`
}

func newReport(cfg Config) *Report {
	return &Report{
		RunID:         uuid.NewString(),
		Workspace:     cfg.Workspace,
		TargetVersion: cfg.TargetVersion,
		DryRun:        cfg.DryRun,
		StartedAt:     time.Now().UTC(),
	}
}

// DiagnosticCount returns the number of diagnostics over all targets.
func (r *Report) DiagnosticCount() int {
	n := 0
	for _, t := range r.Targets {
		n += len(t.Diagnostics)
	}
	return n
}

// WriteFile writes the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return migerrors.WrapFileSystemError("encode", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return migerrors.WrapFileSystemError("create", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return migerrors.WrapFileSystemError("write", path, err)
	}
	return nil
}
