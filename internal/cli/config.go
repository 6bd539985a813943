package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	migerrors "github.com/toyz/ngmigrate/internal/errors"
	"github.com/toyz/ngmigrate/internal/migration"
	"github.com/toyz/ngmigrate/internal/utils"
)

// ConfigFileName is the optional configuration file looked up from the
// workspace directory upward.
const ConfigFileName = "ngmigrate.toml"

// Config holds the configuration of one migration run
type Config struct {
	// Workspace is the directory holding angular.json
	Workspace string `toml:"-"`

	// Projects restricts the migration to the named projects; empty means all
	Projects []string `toml:"projects"`

	// TargetVersion is the Angular version the workspace is updated to
	TargetVersion string `toml:"target_version"`

	// DryRun reports the changes as diffs without writing them
	DryRun bool `toml:"dry_run"`

	// Report is the path of the JSON report to write, if any
	Report string `toml:"report"`

	// SkipDirs are directory names skipped in addition to the defaults
	SkipDirs []string `toml:"skip_dirs"`

	// CacheSize bounds the parsed files kept in memory; zero uses the default
	CacheSize int `toml:"cache_size"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `toml:"verbose"`

	// Quiet only shows errors and diagnostics
	Quiet bool `toml:"quiet"`
}

// DefaultConfig returns the configuration used without a config file
func DefaultConfig() Config {
	return Config{
		Workspace:     ".",
		TargetVersion: migration.DefaultTargetVersion,
	}
}

// FindConfig looks for ConfigFileName in startDir and its parents.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, migerrors.WrapConfigurationError(ConfigFileName, "locate", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, migerrors.WrapConfigurationError(ConfigFileName, "locate", err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadConfig decodes the file at path over base. Keys missing from the file
// keep their value from base; unknown keys are rejected.
func LoadConfig(path string, base Config) (Config, error) {
	cfg := base
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, migerrors.WrapConfigurationError(path, "parse", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, migerrors.ConfigurationError(path, fmt.Sprintf("unknown key %q", undecoded[0].String()))
	}
	return cfg, nil
}

// Validate checks the configuration before a run
func (c Config) Validate() error {
	checks := []error{
		utils.NewValidatorChain(
			utils.NotBlank("target_version"),
			utils.Custom("target_version", "is not a version the HammerJS migration runs for (9.x or 10.x)", migration.SupportedVersion),
		).Validate(c.TargetVersion),
		utils.ValidateEach("projects", utils.NotBlank("project"))(c.Projects),
		utils.ValidateEach("skip_dirs", utils.NotBlank("skip_dir"))(c.SkipDirs),
		utils.Optional(utils.HasSuffix("report", ".json"))(c.Report),
		utils.AtLeast("cache_size", 0)(c.CacheSize),
		utils.Custom("quiet", "cannot be combined with verbose", func(c Config) bool {
			return !(c.Quiet && c.Verbose)
		})(c),
	}
	for _, err := range checks {
		if err != nil {
			return migerrors.WrapConfigurationError(ConfigFileName, "validate", err)
		}
	}
	return nil
}

// Diagnostics creates the output sink matching the verbosity settings
func (c Config) Diagnostics() *utils.DiagnosticSystem {
	switch {
	case c.Quiet:
		return utils.NewQuietDiagnostics()
	case c.Verbose:
		return utils.NewVerboseDiagnostics()
	}
	return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
}
