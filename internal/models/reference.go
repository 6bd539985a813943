package models

import (
	"github.com/toyz/ngmigrate/internal/tsast"
)

// ImportOrigin is the import that brought a referenced symbol into scope.
type ImportOrigin struct {
	SymbolName      string
	ModuleSpecifier string
}

// IdentifierReference is one occurrence of a tracked symbol.
type IdentifierReference struct {
	Node     *tsast.Node
	Origin   ImportOrigin
	IsImport bool
}

// NewIdentifierReference captures an occurrence of a resolved import.
func NewIdentifierReference(node *tsast.Node, imp tsast.Import) IdentifierReference {
	return IdentifierReference{
		Node:     node,
		Origin:   ImportOrigin{SymbolName: imp.Symbol, ModuleSpecifier: imp.Module},
		IsImport: node.Ancestor(tsast.KindImportStatement) != nil,
	}
}

// FilePath returns the path of the file containing the reference.
func (r IdentifierReference) FilePath() string {
	return r.Node.File.Path
}

// Key returns the stable identity of the referenced node.
func (r IdentifierReference) Key() tsast.NodeKey {
	return r.Node.Key()
}

// IsNamespaced reports whether the reference is accessed through a namespace
// import, as in `ns.GestureConfig`.
func (r IdentifierReference) IsNamespaced() bool {
	return tsast.IsNamespacedAccess(r.Node)
}

// FilterByFile returns the references located in path.
func FilterByFile(refs []IdentifierReference, path string) []IdentifierReference {
	var out []IdentifierReference
	for _, r := range refs {
		if r.FilePath() == path {
			out = append(out, r)
		}
	}
	return out
}
