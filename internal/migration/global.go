package migration

import (
	"github.com/toyz/ngmigrate/internal/utils/fileops"
)

// GlobalState is shared by the migrations of every target of one run.
type GlobalState struct {
	// UsesHammer is set once any target keeps using HammerJS.
	UsesHammer bool
}

// PostMigrationAction tells the driver what to do once the workspace has
// been migrated.
type PostMigrationAction struct {
	RunPackageManager bool `json:"runPackageManager"`
}

// GlobalPostMigration runs once after all targets. It removes HammerJS from
// the manifest when no target uses it and resets global.
func GlobalPostMigration(tree fileops.Tree, logger Logger, global *GlobalState) (PostMigrationAction, error) {
	defer func() { global.UsesHammer = false }()

	subject := "HammerJS."
	if global.UsesHammer {
		subject = "the deprecated Angular Material gesture config."
	}
	logger.Info("General notice: The HammerJS migration is not able to migrate tests. Please manually clean up tests in your project if they rely on %s", subject)
	logger.Info("Read more about migrating tests: %s", migrateTestsURL)

	if global.UsesHammer {
		return PostMigrationAction{}, nil
	}
	removed, err := RemoveHammerFromManifest(tree)
	if err != nil {
		return PostMigrationAction{}, err
	}
	return PostMigrationAction{RunPackageManager: removed}, nil
}
