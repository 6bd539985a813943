package migration

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/toyz/ngmigrate/internal/workspace"
)

// DefaultTargetVersion is the Angular version migrated to when none is given.
const DefaultTargetVersion = "9.0.0"

// supportedMajors are the target versions the migration applies to.
var supportedMajors = map[string]bool{"v9": true, "v10": true}

// Applies reports whether target is migrated when updating to
// targetVersion. Test targets are never migrated.
func Applies(target workspace.Target, targetVersion string) bool {
	if target.IsTest {
		return false
	}
	return SupportedVersion(targetVersion)
}

// SupportedVersion reports whether the migration runs for targetVersion,
// given as "9", "9.1.0" or "v10.0.0-rc.1".
func SupportedVersion(targetVersion string) bool {
	v := strings.TrimSpace(targetVersion)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return false
	}
	return supportedMajors[semver.Major(v)]
}
