package cli

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/toyz/ngmigrate/internal/analysis"
	migerrors "github.com/toyz/ngmigrate/internal/errors"
	"github.com/toyz/ngmigrate/internal/migration"
	"github.com/toyz/ngmigrate/internal/templates"
	"github.com/toyz/ngmigrate/internal/tsast"
	"github.com/toyz/ngmigrate/internal/utils"
	"github.com/toyz/ngmigrate/internal/utils/fileops"
	"github.com/toyz/ngmigrate/internal/workspace"
)

// hammerTypings is the type definition file declaring the global `Hammer`.
var hammerTypings = path.Join("/node_modules", analysis.HammerTypesPath, "index.d.ts")

// Runner migrates every target of a workspace.
type Runner struct {
	cfg      Config
	diag     *utils.DiagnosticSystem
	reporter *DiagnosticReporter
	files    *utils.FileProcessor
}

// NewRunner creates a runner for cfg writing progress to diag.
func NewRunner(cfg Config, diag *utils.DiagnosticSystem, reporter *DiagnosticReporter) *Runner {
	return &Runner{
		cfg:      cfg,
		diag:     diag,
		reporter: reporter,
		files:    utils.NewFileProcessor(cfg.SkipDirs...),
	}
}

// Run migrates the workspace. Targets are migrated one after another;
// a failing target is reported and does not stop the others. The returned
// report is complete even when an error is returned alongside it, and is
// written to the configured report path.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := newReport(r.cfg)
	err := r.run(ctx, report)
	report.FinishedAt = time.Now().UTC()
	if err != nil && len(report.Errors) == 0 {
		report.Errors = append(report.Errors, err.Error())
	}

	if r.cfg.Report != "" {
		if werr := report.WriteFile(r.cfg.Report); werr != nil {
			r.diag.Error("Could not write the report: %v", werr)
		} else {
			r.diag.Verbose("Report written to %s", r.cfg.Report)
		}
	}
	return report, err
}

func (r *Runner) run(ctx context.Context, report *Report) error {
	if !migration.SupportedVersion(r.cfg.TargetVersion) {
		return migerrors.ConfigurationError("target_version",
			fmt.Sprintf("the HammerJS migration does not run when updating to %q", r.cfg.TargetVersion))
	}

	tree, err := fileops.NewDiskTree(r.cfg.Workspace, r.cfg.DryRun)
	if err != nil {
		return err
	}
	ws, err := workspace.Load(tree)
	if err != nil {
		return err
	}
	provider, err := tsast.NewProvider(tree, r.cfg.CacheSize)
	if err != nil {
		return err
	}
	if tree.Exists(hammerTypings) {
		if err := provider.AddAmbientTypes(ctx, hammerTypings); err != nil {
			return migerrors.WrapParseError(hammerTypings, err)
		}
		r.diag.Verbose("Loaded HammerJS typings from %s", hammerTypings)
	}

	errs := &migerrors.MultipleErrors{}
	global := &migration.GlobalState{}
	targets := ws.Targets(r.cfg.Projects...)
	if len(targets) == 0 {
		r.diag.Warn("No targets to migrate")
	}

	var skipped []string
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !migration.Applies(target, r.cfg.TargetVersion) {
			skipped = append(skipped, target.ID())
			report.Targets = append(report.Targets, TargetReport{Target: target.ID(), Skipped: true})
			continue
		}

		tr, err := r.migrateTarget(ctx, tree, provider, target, global)
		report.Targets = append(report.Targets, tr)
		r.reporter.ReportDiagnostics(target.ID(), tr.Diagnostics)
		if err != nil {
			collect(errs, err)
		}
	}
	if len(skipped) > 0 {
		r.diag.Subsection("Skipped targets")
		r.diag.Indent()
		for _, id := range skipped {
			r.diag.List("%s", id)
		}
		r.diag.Unindent()
	}

	action, err := migration.GlobalPostMigration(tree, r.diag, global)
	if err != nil {
		collect(errs, err)
	}
	report.PostMigration = action

	changes, err := tree.Commit()
	if err != nil {
		collect(errs, err)
	}
	report.Changes = changes
	for _, c := range changes {
		r.diag.FileChange(c.Path, c.Created)
		if r.cfg.DryRun {
			r.diag.Verbose("%s", c.Diff)
		}
	}
	if action.RunPackageManager {
		r.diag.Info("Removed %q from %s. Run your package manager to update the lock file.", analysis.HammerPackage, migration.ManifestPath)
	}

	for _, e := range errs.Errors {
		report.Errors = append(report.Errors, e.Error())
	}
	return errs.ErrorOrNil()
}

// migrateTarget analyzes one target, applies its rewrites to the staged
// tree and returns its outcome.
func (r *Runner) migrateTarget(ctx context.Context, tree *fileops.DiskTree, provider *tsast.Provider, target workspace.Target, global *migration.GlobalState) (TargetReport, error) {
	tr := TargetReport{Target: target.ID()}
	r.diag.TargetHeader(target.ID())

	set, err := r.files.Collect(tree, target.Root, target.IndexFiles...)
	if err != nil {
		return tr, err
	}
	if err := provider.Preload(ctx, set.Sources); err != nil {
		return tr, migerrors.WrapParseError(target.Root, err)
	}

	m := migration.New(target, tree, provider, r.diag, global)
	seen := make(map[string]bool, len(set.Templates))
	for _, p := range set.Templates {
		seen[p] = true
	}

	for _, p := range set.Sources {
		r.diag.Debug("Analyzing %s", p)
		f, err := provider.FileCtx(ctx, p)
		if err != nil {
			return tr, migerrors.WrapParseError(p, err)
		}
		for _, n := range f.Nodes {
			m.VisitNode(n)
		}
		resources, err := componentResources(provider, tree, f, seen)
		if err != nil {
			return tr, err
		}
		for _, res := range resources {
			m.VisitTemplate(res)
			tr.Templates++
		}
	}
	for _, p := range set.Templates {
		content, err := tree.Read(p)
		if err != nil {
			return tr, err
		}
		m.VisitTemplate(templates.Resource{FilePath: p, Content: string(content)})
		tr.Templates++
	}
	tr.Sources = len(set.Sources)
	r.diag.TargetItem(fmt.Sprintf("Analyzed %d source files and %d templates", tr.Sources, tr.Templates))

	diagnostics, err := m.PostAnalysis()
	if err != nil {
		return tr, err
	}
	tr.Diagnostics = diagnostics

	changed, err := tree.Flush()
	provider.Invalidate(changed...)
	if err != nil {
		return tr, err
	}
	r.diag.Success("Updated %d files", len(changed))
	return tr, nil
}

// collect adds err to errs, flattening nested collections.
func collect(errs *migerrors.MultipleErrors, err error) {
	var multi *migerrors.MultipleErrors
	if errors.As(err, &multi) {
		for _, e := range multi.Errors {
			errs.Add(e)
		}
		return
	}
	var merr migerrors.MigrationError
	if errors.As(err, &merr) {
		errs.Add(merr)
		return
	}
	errs.Add(migerrors.Wrap(migerrors.UnknownErrorCode, "migration failed", err))
}
