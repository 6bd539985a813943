package migration

import (
	"github.com/toyz/ngmigrate/internal/analysis"
	"github.com/toyz/ngmigrate/internal/models"
	"github.com/toyz/ngmigrate/internal/rewrite"
	"github.com/toyz/ngmigrate/internal/templates"
	"github.com/toyz/ngmigrate/internal/tsast"
	"github.com/toyz/ngmigrate/internal/utils/fileops"
	"github.com/toyz/ngmigrate/internal/workspace"
)

// Logger receives informational notices. utils.DiagnosticSystem satisfies it.
type Logger interface {
	Info(format string, args ...interface{})
}

// SourceProvider returns parsed source files and resolves their identifiers.
type SourceProvider interface {
	tsast.Resolver
	File(path string) (*tsast.SourceFile, error)
}

// Migration migrates the HammerJS setup of one target. The driver feeds it
// every node and template of the target, then calls PostAnalysis once.
type Migration struct {
	target   workspace.Target
	tree     fileops.Tree
	provider SourceProvider
	logger   Logger
	global   *GlobalState

	visitor  *analysis.Visitor
	imports  *rewrite.ImportManager
	elements *rewrite.ElementRemover

	// deleted holds identifiers inside provider definitions that are removed.
	deleted  map[tsast.NodeKey]bool
	failures []models.NodeFailure

	root       *rootModule
	rootLoaded bool
}

// New creates the migration of target. global is shared by every target of
// one run and finalized by GlobalPostMigration.
func New(target workspace.Target, tree fileops.Tree, provider SourceProvider, logger Logger, global *GlobalState) *Migration {
	return &Migration{
		target:   target,
		tree:     tree,
		provider: provider,
		logger:   logger,
		global:   global,
		visitor:  analysis.NewVisitor(provider),
		imports:  rewrite.NewImportManager(tree),
		elements: rewrite.NewElementRemover(tree),
		deleted:  make(map[tsast.NodeKey]bool),
	}
}

// Target returns the migrated target.
func (m *Migration) Target() workspace.Target {
	return m.target
}

// VisitNode classifies one source node.
func (m *Migration) VisitNode(n *tsast.Node) {
	m.visitor.VisitNode(n)
}

// VisitTemplate scans one template for gesture event bindings.
func (m *Migration) VisitTemplate(r templates.Resource) {
	m.visitor.VisitTemplate(r)
}

// State returns what the analysis learned so far.
func (m *Migration) State() *analysis.State {
	return &m.visitor.State
}

// PostAnalysis picks the migration for the analyzed target, queues its edits
// and returns the places that need manual follow-up.
func (m *Migration) PostAnalysis() ([]models.Diagnostic, error) {
	s := m.State()
	customConfig := m.hasCustomGestureConfigSetup()

	switch {
	case customConfig:
		// A custom gesture config means HammerJS stays.
		m.global.UsesHammer = true
		if !s.UsedInTemplate() && len(s.GestureConfigReferences) > 0 {
			m.removeMaterialGestureConfigSetup()
			m.notice("The migration detected that HammerJS is manually set up in combination with references to the Angular Material gesture config. This target cannot be migrated completely, but all references to the deprecated Angular Material gesture config have been removed. Read more here: %s", ambiguousUsageURL)
		} else if s.UsedInTemplate() && len(s.GestureConfigReferences) > 0 {
			m.notice("The migration detected that HammerJS is manually set up in combination with references to the Angular Material gesture config. This target cannot be migrated completely. Please manually remove references to the deprecated Angular Material gesture config. Read more here: %s", ambiguousUsageURL)
		}
	case s.UsedInRuntime || s.UsedInTemplate():
		m.global.UsesHammer = true
		switch {
		case !s.UsedInTemplate():
			m.removeMaterialGestureConfigSetup()
			m.removeHammerModuleReferences()
		case s.StandardEventsUsedInTemplate && !s.CustomEventsUsedInTemplate:
			m.setupHammerWithStandardEvents()
		default:
			if err := m.setupHammerWithCustomEvents(); err != nil {
				return nil, err
			}
		}
	default:
		m.removeHammerSetup()
	}

	if err := m.elements.Commit(); err != nil {
		return nil, err
	}
	if err := m.imports.Commit(); err != nil {
		return nil, err
	}

	diagnostics, err := m.diagnostics()
	if err != nil {
		return nil, err
	}

	// Template bindings can belong to component outputs that happen to share
	// a gesture event name.
	if !customConfig && !s.UsedInRuntime && s.UsedInTemplate() {
		m.notice("The migration kept HammerJS installed, but detected ambiguous usage of HammerJS. Please manually check if you can remove HammerJS from your application. More details: %s", ambiguousUsageURL)
	}
	return diagnostics, nil
}

// diagnostics converts node failures into positions within the edited files.
func (m *Migration) diagnostics() ([]models.Diagnostic, error) {
	out := make([]models.Diagnostic, 0, len(m.failures))
	for _, f := range m.failures {
		d := models.Diagnostic{FilePath: f.FilePath, Message: f.Message}
		if f.Node != nil {
			rec, err := m.tree.Edit(f.FilePath)
			if err != nil {
				return nil, err
			}
			pos := rec.CorrectPosition(f.Node.Start)
			d.Position = &pos
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *Migration) fail(n *tsast.Node, message string) {
	m.failures = append(m.failures, models.NodeFailure{Node: n, FilePath: n.File.Path, Message: message})
}

func (m *Migration) failFile(path, message string) {
	m.failures = append(m.failures, models.NodeFailure{FilePath: path, Message: message})
}

func (m *Migration) notice(format string, args ...interface{}) {
	args = append([]interface{}{m.target.Project}, args...)
	m.logger.Info("HammerJS migration for %q: "+format, args...)
}
