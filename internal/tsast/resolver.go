package tsast

// Import describes the import a name was brought into scope by.
type Import struct {
	Symbol string
	Module string
}

// Resolver maps identifier occurrences to their declarations.
type Resolver interface {
	// ImportOf returns the import an identifier resolves to.
	ImportOf(n *Node) (Import, bool)
	// AmbientDeclarationOf returns the path of the type definition file that
	// declares an identifier not declared or imported by its own file.
	AmbientDeclarationOf(n *Node) (string, bool)
}

// ImportOf resolves an identifier through the import table of its file.
// Identifiers inside an import specifier only resolve at the local binding,
// so an aliased import yields exactly one reference.
func (p *Provider) ImportOf(n *Node) (Import, bool) {
	if n == nil || n.File == nil {
		return Import{}, false
	}
	f := n.File

	if n.Parent != nil && n.Parent.Kind == KindImportSpecifier {
		spec := newSpecifier(n.Parent)
		if spec == nil || spec.Local != n {
			return Import{}, false
		}
		decl := importDeclOf(n)
		if decl == nil {
			return Import{}, false
		}
		return Import{Symbol: spec.Name, Module: decl.Module}, true
	}

	switch n.Kind {
	case KindPropertyIdentifier:
		// ns.Symbol
		if n.Parent == nil || n.Parent.Kind != KindMemberExpression || n.Field != "property" {
			return Import{}, false
		}
		return f.namespaceMember(n.Parent.ChildByField("object"), n)
	case KindTypeIdentifier:
		if n.Parent != nil && n.Parent.Kind == KindNestedTypeIdentifier && n.Field == "name" {
			return f.namespaceMember(n.Parent.ChildByField("module"), n)
		}
		return f.lookup(n.Text())
	case KindIdentifier, KindShorthandProperty:
		if n.Ancestor(KindImportStatement) != nil {
			return Import{}, false
		}
		if n.Parent != nil && n.Parent.Kind == KindNestedTypeIdentifier {
			return Import{}, false
		}
		return f.lookup(n.Text())
	}
	return Import{}, false
}

func (f *SourceFile) lookup(name string) (Import, bool) {
	b, ok := f.bindings[name]
	if !ok || b.namespace {
		return Import{}, false
	}
	return Import{Symbol: b.symbol, Module: b.decl.Module}, true
}

func (f *SourceFile) namespaceMember(object, member *Node) (Import, bool) {
	if object == nil || object.Kind != KindIdentifier {
		return Import{}, false
	}
	b, ok := f.bindings[object.Text()]
	if !ok || !b.namespace {
		return Import{}, false
	}
	return Import{Symbol: member.Text(), Module: b.decl.Module}, true
}

func importDeclOf(n *Node) *ImportDecl {
	stmt := n.Ancestor(KindImportStatement)
	if stmt == nil {
		return nil
	}
	for _, d := range n.File.Imports {
		if d.Node == stmt {
			return d
		}
	}
	return nil
}

// AmbientDeclarationOf looks a free identifier up in the ambient type index.
func (p *Provider) AmbientDeclarationOf(n *Node) (string, bool) {
	if n == nil || n.Kind != KindIdentifier || n.File == nil {
		return "", false
	}
	name := n.Text()
	if n.File.Bound(name) {
		return "", false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	path, ok := p.ambient[name]
	return path, ok
}

// Bound reports whether name is bound by an import or a declaration in f.
func (f *SourceFile) Bound(name string) bool {
	_, imported := f.bindings[name]
	return imported || f.declared[name]
}

// NamespaceFor returns the local name of a namespace import of module.
func (f *SourceFile) NamespaceFor(module string) (string, bool) {
	for _, d := range f.Imports {
		if d.Module == module && d.Namespace != nil {
			return d.Namespace.Text(), true
		}
	}
	return "", false
}
