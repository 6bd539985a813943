package tsast

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// grammarFields lists the grammar fields the migration navigates by name.
var grammarFields = []string{
	"name", "alias", "source", "object", "property", "index", "function",
	"arguments", "key", "value", "body", "module", "declaration", "decorator",
}

// LineCol is a zero-based line and column pair.
type LineCol struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// SourceFile is a parsed TypeScript file together with its import table.
type SourceFile struct {
	Path    string
	Text    string
	Root    *Node
	Nodes   []*Node
	Imports []*ImportDecl

	lineStarts []int
	bindings   map[string]binding
	declared   map[string]bool
}

// ImportDecl is one `import ... from 'module'` statement.
type ImportDecl struct {
	Node         *Node
	Module       string
	Default      *Node
	Namespace    *Node
	NamedImports *Node
	Specifiers   []*ImportSpecifier
}

// IsBare reports whether the declaration binds no names, like
// `import 'mod'` or `import {} from 'mod'`.
func (d *ImportDecl) IsBare() bool {
	return d.Default == nil && d.Namespace == nil && len(d.Specifiers) == 0
}

// ImportSpecifier is one `Name` or `Name as Local` entry of a named import.
type ImportSpecifier struct {
	Node  *Node
	Name  string
	Local *Node
}

type binding struct {
	decl      *ImportDecl
	symbol    string
	namespace bool
}

// Parse builds a SourceFile from TypeScript source text.
func Parse(ctx context.Context, path string, src []byte) (*SourceFile, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	file := &SourceFile{
		Path:     path,
		Text:     string(src),
		bindings: make(map[string]binding),
		declared: make(map[string]bool),
	}
	file.Root = file.convert(tree.RootNode(), nil, "")
	file.indexLines()
	file.indexImports()
	file.indexDeclarations()
	return file, nil
}

func (f *SourceFile) convert(sn *sitter.Node, parent *Node, field string) *Node {
	n := &Node{
		ID:     len(f.Nodes),
		Kind:   sn.Type(),
		Field:  field,
		Start:  int(sn.StartByte()),
		End:    int(sn.EndByte()),
		Named:  sn.IsNamed(),
		Parent: parent,
		File:   f,
	}
	f.Nodes = append(f.Nodes, n)

	count := int(sn.ChildCount())
	if count == 0 {
		return n
	}
	fields := make(map[[3]uint32]string)
	for _, name := range grammarFields {
		if c := sn.ChildByFieldName(name); c != nil {
			fields[[3]uint32{c.StartByte(), c.EndByte(), uint32(c.Symbol())}] = name
		}
	}
	n.Children = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		c := sn.Child(i)
		if c == nil {
			continue
		}
		name := fields[[3]uint32{c.StartByte(), c.EndByte(), uint32(c.Symbol())}]
		n.Children = append(n.Children, f.convert(c, n, name))
	}
	return n
}

func (f *SourceFile) indexLines() {
	f.lineStarts = []int{0}
	for i := 0; i < len(f.Text); i++ {
		if f.Text[i] == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
}

// Position converts a byte offset into a zero-based line and column.
func (f *SourceFile) Position(offset int) LineCol {
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return LineCol{Line: line, Character: offset - f.lineStarts[line]}
}

func (f *SourceFile) indexImports() {
	for _, stmt := range f.Root.Children {
		if stmt.Kind != KindImportStatement {
			continue
		}
		module, ok := StringValue(stmt.ChildByField("source"))
		if !ok {
			continue
		}
		decl := &ImportDecl{Node: stmt, Module: module}
		if clause := stmt.ChildOfKind(KindImportClause); clause != nil {
			for _, c := range clause.NamedChildren() {
				switch c.Kind {
				case KindIdentifier:
					decl.Default = c
					f.bindings[c.Text()] = binding{decl: decl, symbol: "default"}
				case KindNamespaceImport:
					if id := c.ChildOfKind(KindIdentifier); id != nil {
						decl.Namespace = id
						f.bindings[id.Text()] = binding{decl: decl, namespace: true}
					}
				case KindNamedImports:
					decl.NamedImports = c
					for _, s := range c.NamedChildren() {
						if s.Kind != KindImportSpecifier {
							continue
						}
						spec := newSpecifier(s)
						if spec == nil {
							continue
						}
						decl.Specifiers = append(decl.Specifiers, spec)
						f.bindings[spec.Local.Text()] = binding{decl: decl, symbol: spec.Name}
					}
				}
			}
		}
		f.Imports = append(f.Imports, decl)
	}
}

func newSpecifier(s *Node) *ImportSpecifier {
	name := s.ChildByField("name")
	if name == nil {
		return nil
	}
	spec := &ImportSpecifier{Node: s, Name: name.Text(), Local: name}
	if alias := s.ChildByField("alias"); alias != nil {
		spec.Local = alias
	}
	return spec
}

func (f *SourceFile) indexDeclarations() {
	f.Root.Walk(func(n *Node) bool {
		switch n.Kind {
		case KindImportStatement, KindAmbientDeclaration:
			return false
		case KindClassDeclaration, KindFunctionDeclaration, KindVariableDeclarator,
			"lexical_declaration", "enum_declaration", "interface_declaration",
			"type_alias_declaration", "abstract_class_declaration":
			if name := n.ChildByField("name"); name != nil && name.IsIdentifierLike() {
				f.declared[name.Text()] = true
			}
		}
		return true
	})
	// Local ambient declarations shadow ones coming from type packages.
	for _, n := range ambientNames(f.Root) {
		f.declared[n] = true
	}
}

// ambientNames returns the names introduced by top-level `declare` statements.
func ambientNames(root *Node) []string {
	var names []string
	for _, stmt := range root.Children {
		target := stmt
		if target.Kind == KindExportStatement {
			if d := target.ChildOfKind(KindAmbientDeclaration); d != nil {
				target = d
			}
		}
		if target.Kind != KindAmbientDeclaration {
			continue
		}
		target.Walk(func(n *Node) bool {
			switch n.Kind {
			case KindVariableDeclarator, KindFunctionSignature, KindClassDeclaration, "class":
				if name := n.ChildByField("name"); name != nil {
					names = append(names, name.Text())
				}
				return false
			case "statement_block", "interface_body", "object_type":
				return false
			}
			return true
		})
	}
	return names
}
