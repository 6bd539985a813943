package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toyz/ngmigrate/internal/cli"
)

// Version information, overridden at build time via -ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ngmigrate [workspace-dir]",
		Short: "Migrate an Angular workspace away from HammerJS",
		Long: `ngmigrate updates an Angular workspace for Angular 9: it removes HammerJS
where nothing uses it, copies the gesture config into projects that rely on
the custom longpress and slide gestures, and wires HammerModule where template
gesture events remain. Places that cannot be migrated safely are reported.

Settings are read from ngmigrate.toml in the workspace directory or one of its
parents; flags override the file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMigrate,
	}
	root.Version = Version

	flags := root.Flags()
	flags.String("config", "", "path of the configuration file (default: ngmigrate.toml lookup)")
	flags.StringSlice("project", nil, "only migrate the named projects (repeatable)")
	flags.String("target-version", "", "Angular version the workspace is updated to (default 9.0.0)")
	flags.Bool("dry-run", false, "print the changes as diffs without writing them")
	flags.String("report", "", "write a JSON report of the run to this path")
	flags.Bool("verbose", false, "enable verbose output and detailed error reporting")
	flags.Bool("quiet", false, "only show errors and migration diagnostics")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ngmigrate version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if GitCommit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "ngmigrate %s (%s)\n", Version, GitCommit)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ngmigrate %s\n", Version)
		},
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	reporter := cli.NewDiagnosticReporter(verbose)

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		reporter.ReportError(err)
		return err
	}

	diagnostics := cfg.Diagnostics()
	diagnostics.Header("HammerJS migration")
	diagnostics.WorkspacePath(cfg.Workspace)
	if cfg.DryRun {
		diagnostics.Info("Dry run: no files will be written")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, runErr := cli.NewRunner(cfg, diagnostics, cli.NewDiagnosticReporter(cfg.Verbose)).Run(ctx)
	if runErr != nil {
		reporter.ReportError(runErr)
		return runErr
	}

	diagnostics.Summary("Migration summary", map[string]interface{}{
		"Targets":       len(report.Targets),
		"Files changed": len(report.Changes),
		"Diagnostics":   report.DiagnosticCount(),
	})
	diagnostics.Complete(cfg.DryRun)
	return nil
}

// resolveConfig builds the run configuration: defaults, then the config
// file, then the flags that were set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (cli.Config, error) {
	cfg := cli.DefaultConfig()
	if len(args) > 0 {
		cfg.Workspace = args[0]
	}
	workspace, err := filepath.Abs(cfg.Workspace)
	if err != nil {
		return cli.Config{}, err
	}

	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	if configPath == "" {
		found, ok, err := cli.FindConfig(workspace)
		if err != nil {
			return cli.Config{}, err
		}
		if ok {
			configPath = found
		}
	}
	if configPath != "" {
		if cfg, err = cli.LoadConfig(configPath, cfg); err != nil {
			return cli.Config{}, err
		}
		// Paths in the file are relative to the workspace.
		if cfg.Report != "" && !filepath.IsAbs(cfg.Report) {
			cfg.Report = filepath.Join(workspace, cfg.Report)
		}
	}
	cfg.Workspace = workspace

	if flags.Changed("project") {
		cfg.Projects, _ = flags.GetStringSlice("project")
	}
	if flags.Changed("target-version") {
		cfg.TargetVersion, _ = flags.GetString("target-version")
	}
	if flags.Changed("dry-run") {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("report") {
		report, _ := flags.GetString("report")
		if cfg.Report, err = filepath.Abs(report); err != nil {
			return cli.Config{}, err
		}
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("quiet") {
		cfg.Quiet, _ = flags.GetBool("quiet")
	}

	if err := cfg.Validate(); err != nil {
		return cli.Config{}, err
	}
	return cfg, nil
}
