package migration

import (
	"fmt"

	"github.com/toyz/ngmigrate/internal/analysis"
	"github.com/toyz/ngmigrate/internal/models"
	"github.com/toyz/ngmigrate/internal/rewrite"
	"github.com/toyz/ngmigrate/internal/templates"
	"github.com/toyz/ngmigrate/internal/tsast"
)

const (
	ambiguousUsageURL = "https://git.io/ng-material-v9-hammer-ambiguous-usage"
	migrateTestsURL   = "https://git.io/ng-material-v9-hammer-migrate-tests"

	removePlaceholder = "/* TODO: remove */ {}"
)

// hasCustomGestureConfigSetup reports whether some provider binds the
// gesture config token to a class other than the Material gesture config.
func (m *Migration) hasCustomGestureConfigSetup() bool {
	s := m.State()
	material := referenceKeys(s.GestureConfigReferences)
	for _, ref := range s.HammerConfigTokenReferences {
		pair := ref.Node.Ancestor(tsast.KindPair)
		if pair == nil {
			continue
		}
		if name, ok := tsast.PropertyName(pair.ChildByField("key")); !ok || name != analysis.ProvideProperty {
			continue
		}
		custom := true
		for _, id := range pair.Parent.Identifiers() {
			if material[id.Key()] {
				custom = false
				break
			}
		}
		if custom {
			return true
		}
	}
	return false
}

// setupHammerWithStandardEvents enables the built-in Hammer event plugin
// and drops the Material gesture config.
func (m *Migration) setupHammerWithStandardEvents() {
	m.setupHammerModuleInRootModule()
	m.removeMaterialGestureConfigSetup()
}

// setupHammerWithCustomEvents copies the gesture config into the project,
// points every Material gesture config reference at the copy and wires the
// copy and HammerModule into the root module.
func (m *Migration) setupHammerWithCustomEvents() error {
	configPath := availableFileName(m.tree, joinPath(m.target.SourceRoot, gestureConfigFileName))
	if err := m.tree.Create(configPath, []byte(templates.GestureConfigTemplate)); err != nil {
		return err
	}

	for _, ref := range m.State().GestureConfigReferences {
		m.replaceGestureConfigReference(ref, analysis.GestureConfigName, moduleSpecifier(configPath, ref.FilePath()))
	}

	m.setupNewGestureConfigInRootModule(configPath)
	m.setupHammerModuleInRootModule()
	return nil
}

// removeHammerSetup removes every trace of HammerJS from a target that does
// not use it.
func (m *Migration) removeHammerSetup() {
	for _, decl := range m.State().InstallImports {
		m.imports.DeleteImportDeclaration(decl)
	}
	m.removeMaterialGestureConfigSetup()
	m.removeHammerModuleReferences()
	m.removeHammerFromIndexFiles()
}

// removeMaterialGestureConfigSetup removes the Material gesture config
// providers and imports, and the token imports that become unused.
func (m *Migration) removeMaterialGestureConfigSetup() {
	s := m.State()
	kept := make(map[string]bool)
	for _, ref := range s.GestureConfigReferences {
		if !m.removeGestureConfigReference(ref) && !ref.IsNamespaced() {
			kept[ref.FilePath()] = true
		}
	}
	// The named import goes only where no plain reference had to stay.
	for _, ref := range s.GestureConfigReferences {
		if ref.IsNamespaced() || kept[ref.FilePath()] {
			continue
		}
		m.imports.DeleteNamedImport(ref.Node.File, analysis.GestureConfigName, ref.Origin.ModuleSpecifier)
	}

	for _, ref := range s.HammerConfigTokenReferences {
		if ref.IsImport {
			m.removeHammerConfigTokenImportIfUnused(ref)
		}
	}
}

// removeGestureConfigReference removes the provider definition holding ref
// and reports whether the reference is gone afterwards.
func (m *Migration) removeGestureConfigReference(ref models.IdentifierReference) bool {
	if ref.IsImport {
		return true
	}
	const unsafeMessage = `Cannot remove reference to "GestureConfig". Please remove manually.`

	// Only `{provide: HAMMER_GESTURE_CONFIG, useClass: GestureConfig}` can be
	// proven to be a gesture config provider.
	pair := expressionOf(ref).Parent
	if pair == nil || pair.Kind != tsast.KindPair {
		m.fail(ref.Node, unsafeMessage)
		return false
	}
	if name, ok := tsast.PropertyName(pair.ChildByField("key")); !ok || name != analysis.UseClassProperty {
		m.fail(ref.Node, unsafeMessage)
		return false
	}
	object := pair.Parent
	provide := rewrite.MetadataField(object, analysis.ProvideProperty)
	if provide == nil || !m.isHammerConfigTokenReference(provide.ChildByField("value")) {
		m.fail(ref.Node, unsafeMessage)
		return false
	}

	// A provider stored outside of an array literal, for example in a
	// variable, may be used elsewhere.
	if object.Parent == nil || object.Parent.Kind != tsast.KindArray {
		m.fail(ref.Node, `Unable to delete provider definition for "GestureConfig" completely. Please clean up the provider manually.`)
		return false
	}

	for _, id := range object.Identifiers() {
		m.deleted[id.Key()] = true
	}
	if err := m.elements.Remove(object); err != nil {
		m.fail(ref.Node, unsafeMessage)
		return false
	}
	return true
}

// removeHammerConfigTokenImportIfUnused drops the token import of a file in
// which every plain token reference is deleted.
func (m *Migration) removeHammerConfigTokenImportIfUnused(importRef models.IdentifierReference) {
	for _, ref := range m.State().HammerConfigTokenReferences {
		if ref.IsImport || ref.IsNamespaced() || ref.FilePath() != importRef.FilePath() {
			continue
		}
		if !m.deleted[ref.Key()] {
			return
		}
	}
	m.imports.DeleteNamedImport(importRef.Node.File, analysis.HammerConfigToken, importRef.Origin.ModuleSpecifier)
}

// removeHammerModuleReferences removes HammerModule from module imports.
// References outside of array literals are replaced by a placeholder.
func (m *Migration) removeHammerModuleReferences() {
	for _, ref := range m.State().HammerModuleReferences {
		if !ref.IsNamespaced() {
			m.imports.DeleteNamedImport(ref.Node.File, analysis.HammerModuleName, ref.Origin.ModuleSpecifier)
		}
		if ref.IsImport {
			continue
		}

		expr := expressionOf(ref)
		if expr.Parent != nil && expr.Parent.Kind == tsast.KindArray {
			if err := m.elements.Remove(expr); err == nil {
				continue
			}
		}
		rec, err := m.tree.Edit(ref.FilePath())
		if err != nil {
			m.fail(ref.Node, `Unable to delete reference to "HammerModule". Please manually remove the module import.`)
			continue
		}
		rec.ReplaceNode(expr, removePlaceholder)
		m.fail(expr, `Unable to delete reference to "HammerModule". Please manually remove the module import.`)
	}
}

// replaceGestureConfigReference points ref at symbol exported by
// specifier.
func (m *Migration) replaceGestureConfigReference(ref models.IdentifierReference, symbol, specifier string) {
	file := ref.Node.File
	// Identifiers about to be replaced do not block the new local name.
	excluded := referenceKeys(models.FilterByFile(m.State().GestureConfigReferences, file.Path))

	// A namespace import may still be used for other symbols, so it stays.
	if !ref.IsNamespaced() {
		m.imports.DeleteNamedImport(file, analysis.GestureConfigName, ref.Origin.ModuleSpecifier)
		if ref.IsImport {
			return
		}
	}
	expr := m.imports.AddImport(file, symbol, specifier, excluded)
	rec, err := m.tree.Edit(file.Path)
	if err != nil {
		m.fail(ref.Node, fmt.Sprintf("Unable to update reference to \"GestureConfig\". Please import it from %q.", specifier))
		return
	}
	rec.ReplaceNode(expressionOf(ref), expr)
}

// removeHammerFromIndexFiles strips HammerJS script tags from the index
// files of the target.
func (m *Migration) removeHammerFromIndexFiles() {
	for _, path := range m.target.IndexFiles {
		if !m.tree.Exists(path) {
			continue
		}
		rec, err := m.tree.Edit(path)
		if err != nil {
			m.failFile(path, "Unable to remove the HammerJS script tag. Please remove it manually.")
			continue
		}
		for _, span := range templates.FindHammerScriptTags(rec.Original()) {
			rec.Remove(span.Start, span.End-span.Start)
		}
	}
}

// isHammerConfigTokenReference reports whether expr is one of the recorded
// token references, directly or through a namespace.
func (m *Migration) isHammerConfigTokenReference(expr *tsast.Node) bool {
	expr = tsast.Unwrap(expr)
	if expr == nil {
		return false
	}
	if expr.Kind == tsast.KindMemberExpression {
		expr = expr.ChildByField("property")
		if expr == nil {
			return false
		}
	}
	key := expr.Key()
	for _, ref := range m.State().HammerConfigTokenReferences {
		if ref.Key() == key {
			return true
		}
	}
	return false
}

// expressionOf returns the expression a reference occupies: `ns.Name` for
// namespaced references, the identifier otherwise.
func expressionOf(ref models.IdentifierReference) *tsast.Node {
	if ref.IsNamespaced() {
		return ref.Node.Parent
	}
	return ref.Node
}

func referenceKeys(refs []models.IdentifierReference) map[tsast.NodeKey]bool {
	keys := make(map[tsast.NodeKey]bool, len(refs))
	for _, r := range refs {
		keys[r.Key()] = true
	}
	return keys
}
