package migration

import (
	"fmt"

	"github.com/toyz/ngmigrate/internal/analysis"
	"github.com/toyz/ngmigrate/internal/models"
	"github.com/toyz/ngmigrate/internal/rewrite"
	"github.com/toyz/ngmigrate/internal/tsast"
)

// rootModule is the NgModule class bootstrapped by the main file.
type rootModule struct {
	file  *tsast.SourceFile
	class *tsast.Node
}

// rootModule resolves the root module once per target.
func (m *Migration) rootModule() *rootModule {
	if !m.rootLoaded {
		m.root = m.findRootModule()
		m.rootLoaded = true
	}
	return m.root
}

func (m *Migration) findRootModule() *rootModule {
	if m.target.Main == "" || !m.tree.Exists(m.target.Main) {
		return nil
	}
	main, err := m.provider.File(m.target.Main)
	if err != nil {
		return nil
	}
	expr := rewrite.FindBootstrapModule(main)
	if expr == nil || expr.Kind != tsast.KindIdentifier {
		return nil
	}
	if class := rewrite.FindClass(main, expr.Text()); class != nil {
		return &rootModule{file: main, class: class}
	}

	imp, ok := m.provider.ImportOf(expr)
	if !ok {
		return nil
	}
	path, ok := resolveImport(m.tree, main.Path, imp.Module)
	if !ok {
		return nil
	}
	file, err := m.provider.File(path)
	if err != nil {
		return nil
	}
	class := rewrite.FindClass(file, imp.Symbol)
	if class == nil {
		return nil
	}
	return &rootModule{file: file, class: class}
}

// mainPath is where failures about the root module are reported.
func (m *Migration) mainPath() string {
	if m.target.Main != "" {
		return m.target.Main
	}
	return m.target.Root
}

// setupHammerModuleInRootModule adds HammerModule to the imports of the
// root module unless it is listed there already.
func (m *Migration) setupHammerModuleInRootModule() {
	const message = `Could not setup HammerModule. Please manually set up the "HammerModule" from "@angular/platform-browser".`

	root := m.rootModule()
	if root == nil {
		m.failFile(m.mainPath(), message)
		return
	}
	metadata := rewrite.DecoratorMetadata(m.provider, root.class, analysis.NgModuleName, analysis.AngularCoreModule)
	if metadata == nil {
		m.fail(root.class, message)
		return
	}
	field := rewrite.MetadataField(metadata, "imports")
	if field != nil {
		if !isArrayField(field) {
			m.fail(field, message)
			return
		}
		if referencedIn(field, m.State().HammerModuleReferences) {
			return
		}
	}

	rec, err := m.tree.Edit(root.file.Path)
	if err != nil {
		m.fail(root.class, message)
		return
	}
	expr := m.imports.AddImport(root.file, analysis.HammerModuleName, analysis.PlatformBrowserModule, nil)
	if err := rewrite.AddSymbolToMetadata(rec, metadata, "imports", expr); err != nil {
		m.fail(metadata, message)
	}
}

// setupNewGestureConfigInRootModule provides the copied gesture config for
// the gesture config token in the root module, unless the providers already
// mention both.
func (m *Migration) setupNewGestureConfigInRootModule(configPath string) {
	const message = `Could not setup Hammer gestures in module. Please manually ensure that the Hammer gesture config is set up.`

	root := m.rootModule()
	if root == nil {
		m.failFile(m.mainPath(), message)
		return
	}
	metadata := rewrite.DecoratorMetadata(m.provider, root.class, analysis.NgModuleName, analysis.AngularCoreModule)
	if metadata == nil {
		m.fail(root.class, message)
		return
	}
	s := m.State()
	field := rewrite.MetadataField(metadata, "providers")
	if field != nil {
		if !isArrayField(field) {
			m.fail(field, message)
			return
		}
		if referencedIn(field, s.HammerConfigTokenReferences) && referencedIn(field, s.GestureConfigReferences) {
			return
		}
	}

	rec, err := m.tree.Edit(root.file.Path)
	if err != nil {
		m.fail(root.class, message)
		return
	}
	excluded := referenceKeys(models.FilterByFile(s.GestureConfigReferences, root.file.Path))
	configExpr := m.imports.AddImport(root.file, analysis.GestureConfigName, moduleSpecifier(configPath, root.file.Path), excluded)
	tokenExpr := m.imports.AddImport(root.file, analysis.HammerConfigToken, analysis.PlatformBrowserModule, nil)
	provider := fmt.Sprintf("{ %s: %s, %s: %s }", analysis.ProvideProperty, tokenExpr, analysis.UseClassProperty, configExpr)
	if err := rewrite.AddSymbolToMetadata(rec, metadata, "providers", provider); err != nil {
		m.fail(metadata, message)
	}
}

func isArrayField(pair *tsast.Node) bool {
	value := tsast.Unwrap(pair.ChildByField("value"))
	return value != nil && value.Kind == tsast.KindArray
}

// referencedIn reports whether one of refs lies within n.
func referencedIn(n *tsast.Node, refs []models.IdentifierReference) bool {
	keys := referenceKeys(refs)
	for _, id := range n.Identifiers() {
		if keys[id.Key()] {
			return true
		}
	}
	return false
}
