package rewrite

import (
	"fmt"
	"strings"

	"github.com/toyz/ngmigrate/internal/tsast"
)

// ImportManager tracks named imports added to and removed from source files
// and turns them into recorder edits on Commit
type ImportManager struct {
	editor Editor
	files  map[string]*fileImports
	order  []string
}

type fileImports struct {
	file         *tsast.SourceFile
	removedSpecs map[tsast.NodeKey]bool
	removedDecls map[tsast.NodeKey]bool
	additions    []*addition
	names        map[string]bool
	emitted      map[Edit]bool
}

type addition struct {
	symbol string
	module string
	local  string
	// decl is the existing declaration the binding is appended to, nil for a
	// new declaration.
	decl *tsast.ImportDecl
}

func (a *addition) specifier() string {
	if a.local == a.symbol {
		return a.symbol
	}
	return a.symbol + " as " + a.local
}

// FilePlan holds the edits a commit produces for one file
type FilePlan struct {
	Path  string
	Edits []Edit
}

// NewImportManager creates a new import manager
func NewImportManager(editor Editor) *ImportManager {
	return &ImportManager{
		editor: editor,
		files:  make(map[string]*fileImports),
	}
}

func (im *ImportManager) state(file *tsast.SourceFile) *fileImports {
	fi, ok := im.files[file.Path]
	if !ok {
		fi = &fileImports{
			file:         file,
			removedSpecs: make(map[tsast.NodeKey]bool),
			removedDecls: make(map[tsast.NodeKey]bool),
			names:        make(map[string]bool),
			emitted:      make(map[Edit]bool),
		}
		im.files[file.Path] = fi
		im.order = append(im.order, file.Path)
	}
	return fi
}

// AddImport makes symbol from module available in file and returns the
// expression referring to it. Existing bindings are reused. A new binding
// gets a local name that collides with no identifier of the file outside
// excluded.
func (im *ImportManager) AddImport(file *tsast.SourceFile, symbol, module string, excluded map[tsast.NodeKey]bool) string {
	fi := im.state(file)

	for _, a := range fi.additions {
		if a.symbol == symbol && a.module == module {
			return a.local
		}
	}
	for _, d := range file.Imports {
		if d.Module != module || fi.removedDecls[d.Node.Key()] {
			continue
		}
		for _, s := range d.Specifiers {
			if s.Name == symbol && !im.IsSpecifierDeleted(s) {
				return s.Local.Text()
			}
		}
	}
	if ns, ok := file.NamespaceFor(module); ok {
		return ns + "." + symbol
	}

	local := fi.uniqueName(symbol, excluded)
	fi.names[local] = true

	a := &addition{symbol: symbol, module: module, local: local}
	for _, d := range file.Imports {
		if d.Module == module && d.NamedImports != nil && !fi.removedDecls[d.Node.Key()] {
			a.decl = d
			break
		}
	}
	fi.additions = append(fi.additions, a)
	return local
}

func (fi *fileImports) uniqueName(symbol string, excluded map[tsast.NodeKey]bool) string {
	taken := func(name string) bool {
		if fi.names[name] {
			return true
		}
		for _, n := range fi.file.Nodes {
			if n.IsIdentifierLike() && !excluded[n.Key()] && n.Text() == name {
				return true
			}
		}
		return false
	}
	name := symbol
	for i := 1; taken(name); i++ {
		name = fmt.Sprintf("%s_%d", symbol, i)
	}
	return name
}

// DeleteNamedImport marks every named binding of symbol imported from module
// in file for removal
func (im *ImportManager) DeleteNamedImport(file *tsast.SourceFile, symbol, module string) {
	fi := im.state(file)
	for _, d := range file.Imports {
		if d.Module != module {
			continue
		}
		for _, s := range d.Specifiers {
			if s.Name == symbol {
				fi.removedSpecs[s.Node.Key()] = true
			}
		}
	}
}

// DeleteImportDeclaration marks a whole import statement for removal
func (im *ImportManager) DeleteImportDeclaration(decl *tsast.ImportDecl) {
	fi := im.state(decl.Node.File)
	fi.removedDecls[decl.Node.Key()] = true
}

// IsSpecifierDeleted reports whether spec is pending removal
func (im *ImportManager) IsSpecifierDeleted(spec *tsast.ImportSpecifier) bool {
	fi, ok := im.files[spec.Node.File.Path]
	return ok && fi.removedSpecs[spec.Node.Key()]
}

// Plan computes the edits for every pending import change without applying
// them
func (im *ImportManager) Plan() []FilePlan {
	var plans []FilePlan
	for _, path := range im.order {
		fi := im.files[path]
		edits := fi.plan()
		if len(edits) > 0 {
			plans = append(plans, FilePlan{Path: path, Edits: edits})
		}
	}
	return plans
}

// Commit applies the planned edits to the file recorders. Edits emitted by an
// earlier Commit are not emitted again.
func (im *ImportManager) Commit() error {
	for _, plan := range im.Plan() {
		fi := im.files[plan.Path]
		rec, err := im.editor.Edit(plan.Path)
		if err != nil {
			return err
		}
		for _, e := range plan.Edits {
			if fi.emitted[e] {
				continue
			}
			fi.emitted[e] = true
			if e.IsInsert() {
				rec.InsertRight(e.Offset, e.Text)
			} else {
				rec.Remove(e.Offset, e.Length)
			}
		}
	}
	return nil
}

func (fi *fileImports) plan() []Edit {
	var edits []Edit
	remove := func(s Span) {
		edits = append(edits, Edit{Offset: s.Start, Length: s.End - s.Start})
	}
	insert := func(offset int, text string) {
		edits = append(edits, Edit{Offset: offset, Text: text})
	}

	removedStmt := make(map[tsast.NodeKey]bool)
	for _, d := range fi.file.Imports {
		key := d.Node.Key()
		if fi.removedDecls[key] {
			removedStmt[key] = true
			remove(statementSpan(d.Node))
			continue
		}

		var adds []string
		for _, a := range fi.additions {
			if a.decl == d {
				adds = append(adds, a.specifier())
			}
		}
		items := make([]Span, len(d.Specifiers))
		flags := make([]bool, len(d.Specifiers))
		deleted := 0
		for i, s := range d.Specifiers {
			items[i] = NodeSpan(s.Node)
			if fi.removedSpecs[s.Node.Key()] {
				flags[i] = true
				deleted++
			}
		}
		if deleted == 0 && len(adds) == 0 {
			continue
		}

		switch {
		case deleted > 0 && deleted == len(items) && len(adds) == 0:
			if d.Default == nil {
				removedStmt[key] = true
				remove(statementSpan(d.Node))
			} else {
				remove(Span{Start: d.Default.End, End: d.NamedImports.End})
			}
		case deleted > 0 && deleted == len(items):
			insert(items[0].Start, strings.Join(adds, ", "))
			remove(Span{Start: items[0].Start, End: items[len(items)-1].End})
		default:
			for _, s := range ListRemovals(fi.file.Text, items, flags) {
				remove(s)
			}
			if len(adds) == 0 {
				break
			}
			if len(items) == 0 {
				insert(d.NamedImports.Start+1, " "+strings.Join(adds, ", ")+" ")
				break
			}
			last := -1
			for i := range items {
				if !flags[i] {
					last = i
				}
			}
			insert(items[last].End, ", "+strings.Join(adds, ", "))
		}
	}

	var modules []string
	grouped := make(map[string][]string)
	for _, a := range fi.additions {
		if a.decl != nil {
			continue
		}
		if _, ok := grouped[a.module]; !ok {
			modules = append(modules, a.module)
		}
		grouped[a.module] = append(grouped[a.module], a.specifier())
	}
	if len(modules) == 0 {
		return edits
	}

	var anchor *tsast.Node
	for _, d := range fi.file.Imports {
		if !removedStmt[d.Node.Key()] {
			anchor = d.Node
		}
	}
	var b strings.Builder
	for i, module := range modules {
		if i > 0 || anchor != nil {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "import { %s } from '%s';", strings.Join(grouped[module], ", "), module)
	}
	if anchor != nil {
		insert(anchor.End, b.String())
	} else {
		b.WriteString("\n")
		insert(0, b.String())
	}
	return edits
}
