package analysis

import (
	"strings"

	"github.com/toyz/ngmigrate/internal/models"
	"github.com/toyz/ngmigrate/internal/templates"
	"github.com/toyz/ngmigrate/internal/tsast"
)

// State is what the analysis pass learns about one target.
type State struct {
	CustomEventsUsedInTemplate   bool
	StandardEventsUsedInTemplate bool
	UsedInRuntime                bool

	GestureConfigReferences     []models.IdentifierReference
	HammerConfigTokenReferences []models.IdentifierReference
	HammerModuleReferences      []models.IdentifierReference
	InstallImports              []*tsast.ImportDecl
}

// UsedInTemplate reports whether any template binds a gesture event.
func (s *State) UsedInTemplate() bool {
	return s.templateUsage().Any()
}

func (s *State) templateUsage() templates.Usage {
	return templates.Usage{
		StandardEvents: s.StandardEventsUsedInTemplate,
		CustomEvents:   s.CustomEventsUsedInTemplate,
	}
}

// Visitor classifies source nodes and templates of a target. It never
// modifies source text.
type Visitor struct {
	resolver tsast.Resolver
	State    State
}

// NewVisitor creates a visitor resolving identifiers through resolver.
func NewVisitor(resolver tsast.Resolver) *Visitor {
	return &Visitor{resolver: resolver}
}

// VisitTemplate records the gesture events bound by a template.
func (v *Visitor) VisitTemplate(r templates.Resource) {
	usage := v.State.templateUsage()
	if usage.StandardEvents && usage.CustomEvents {
		return
	}
	usage = usage.Or(templates.Scan(r.Content))
	v.State.StandardEventsUsedInTemplate = usage.StandardEvents
	v.State.CustomEventsUsedInTemplate = usage.CustomEvents
}

// VisitNode classifies a single node.
func (v *Visitor) VisitNode(n *tsast.Node) {
	switch {
	case n.Kind == tsast.KindImportStatement:
		v.checkHammerImport(n)
	case n.Is(tsast.KindMemberExpression, tsast.KindSubscriptExpression):
		v.checkRuntimeAccess(n)
	case n.IsIdentifierLike():
		v.checkIdentifier(n)
	}
}

func (v *Visitor) checkHammerImport(n *tsast.Node) {
	for _, decl := range n.File.Imports {
		if decl.Node != n || decl.Module != HammerPackage {
			continue
		}
		if decl.IsBare() {
			v.State.InstallImports = append(v.State.InstallImports, decl)
		} else {
			v.State.UsedInRuntime = true
		}
		return
	}
}

// checkRuntimeAccess detects `window.Hammer` and `window['Hammer']`.
func (v *Visitor) checkRuntimeAccess(n *tsast.Node) {
	object := tsast.Unwrap(n.ChildByField("object"))
	if object == nil || object.Kind != tsast.KindIdentifier || object.Text() != WindowGlobal {
		return
	}
	var name string
	if n.Kind == tsast.KindMemberExpression {
		if prop := n.ChildByField("property"); prop != nil {
			name = prop.Text()
		}
	} else if index := n.ChildByField("index"); index != nil {
		name, _ = tsast.StringValue(index)
	}
	if name == HammerGlobal {
		v.State.UsedInRuntime = true
	}
}

func (v *Visitor) checkIdentifier(n *tsast.Node) {
	imp, ok := v.resolver.ImportOf(n)
	if !ok {
		if n.Kind == tsast.KindIdentifier && n.Text() == HammerGlobal {
			if path, ok := v.resolver.AmbientDeclarationOf(n); ok && strings.Contains(path, HammerTypesPath) {
				v.State.UsedInRuntime = true
			}
		}
		return
	}

	switch {
	case imp.Symbol == GestureConfigName && strings.HasPrefix(imp.Module, MaterialModulePrefix):
		v.State.GestureConfigReferences = append(v.State.GestureConfigReferences, models.NewIdentifierReference(n, imp))
	case imp.Symbol == HammerConfigToken && imp.Module == PlatformBrowserModule:
		v.State.HammerConfigTokenReferences = append(v.State.HammerConfigTokenReferences, models.NewIdentifierReference(n, imp))
	case imp.Symbol == HammerModuleName && imp.Module == PlatformBrowserModule:
		v.State.HammerModuleReferences = append(v.State.HammerModuleReferences, models.NewIdentifierReference(n, imp))
	}
}
