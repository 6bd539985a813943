package tsast

// Node kinds produced by the TypeScript grammar that the migration inspects.
const (
	KindProgram                = "program"
	KindImportStatement        = "import_statement"
	KindImportClause           = "import_clause"
	KindNamedImports           = "named_imports"
	KindNamespaceImport        = "namespace_import"
	KindImportSpecifier        = "import_specifier"
	KindIdentifier             = "identifier"
	KindTypeIdentifier         = "type_identifier"
	KindPropertyIdentifier     = "property_identifier"
	KindShorthandProperty      = "shorthand_property_identifier"
	KindNestedTypeIdentifier   = "nested_type_identifier"
	KindMemberExpression       = "member_expression"
	KindSubscriptExpression    = "subscript_expression"
	KindCallExpression         = "call_expression"
	KindParenthesized          = "parenthesized_expression"
	KindAsExpression           = "as_expression"
	KindSatisfiesExpression    = "satisfies_expression"
	KindNonNullExpression      = "non_null_expression"
	KindTypeAssertion          = "type_assertion"
	KindObject                 = "object"
	KindArray                  = "array"
	KindPair                   = "pair"
	KindString                 = "string"
	KindTemplateString         = "template_string"
	KindDecorator              = "decorator"
	KindClassDeclaration       = "class_declaration"
	KindExportStatement        = "export_statement"
	KindVariableDeclarator     = "variable_declarator"
	KindFunctionDeclaration    = "function_declaration"
	KindAmbientDeclaration     = "ambient_declaration"
	KindFunctionSignature      = "function_signature"
	KindComment                = "comment"
	KindArguments              = "arguments"
	KindPrivatePropertyName    = "private_property_identifier"
	KindShorthandPropertyPatrn = "shorthand_property_identifier_pattern"
)

// NodeKey identifies a node independently of pointer identity: the file path
// plus the node's pre-order index within that file.
type NodeKey struct {
	File string
	ID   int
}

// Node is a syntax node copied out of a tree-sitter tree. Nodes are immutable
// once the owning SourceFile has been built.
type Node struct {
	ID       int
	Kind     string
	Field    string
	Start    int
	End      int
	Named    bool
	Parent   *Node
	Children []*Node
	File     *SourceFile
}

// Key returns the stable identity of the node.
func (n *Node) Key() NodeKey {
	return NodeKey{File: n.File.Path, ID: n.ID}
}

// Text returns the source text spanned by the node.
func (n *Node) Text() string {
	return n.File.Text[n.Start:n.End]
}

// Width returns the length in bytes of the node's text.
func (n *Node) Width() int {
	return n.End - n.Start
}

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// ChildByField returns the first child attached to the given grammar field.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildOfKind returns the first direct child with the given kind.
func (n *Node) ChildOfKind(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// NamedChildren returns the named children, skipping comments.
func (n *Node) NamedChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits the node and its descendants in pre-order. Returning false from
// fn skips the children of the current node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Ancestor returns the closest ancestor with the given kind.
func (n *Node) Ancestor(kind string) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// IsIdentifierLike reports whether the node is any of the grammar's name tokens.
func (n *Node) IsIdentifierLike() bool {
	return n.Is(KindIdentifier, KindTypeIdentifier, KindPropertyIdentifier,
		KindShorthandProperty, KindShorthandPropertyPatrn, KindPrivatePropertyName)
}

// Identifiers returns every identifier-like node in the subtree rooted at n.
func (n *Node) Identifiers() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.IsIdentifierLike() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Unwrap strips parentheses, type assertions and non-null assertions.
func Unwrap(n *Node) *Node {
	for n != nil {
		switch n.Kind {
		case KindParenthesized, KindAsExpression, KindSatisfiesExpression, KindNonNullExpression:
			named := n.NamedChildren()
			if len(named) == 0 {
				return n
			}
			n = named[0]
		case KindTypeAssertion:
			named := n.NamedChildren()
			if len(named) == 0 {
				return n
			}
			n = named[len(named)-1]
		default:
			return n
		}
	}
	return n
}

// StringValue returns the unquoted contents of a string or template literal.
func StringValue(n *Node) (string, bool) {
	if !n.Is(KindString, KindTemplateString) {
		return "", false
	}
	text := n.Text()
	if len(text) < 2 {
		return "", false
	}
	return text[1 : len(text)-1], true
}

// PropertyName returns the static name of an object literal key.
func PropertyName(key *Node) (string, bool) {
	if key == nil {
		return "", false
	}
	switch key.Kind {
	case KindPropertyIdentifier, KindIdentifier:
		return key.Text(), true
	case KindString:
		return StringValue(key)
	}
	return "", false
}

// IsNamespacedAccess reports whether n is the accessed name of a qualified
// reference such as `ns.Name` or the type `ns.Name`.
func IsNamespacedAccess(n *Node) bool {
	if n.Parent == nil {
		return false
	}
	switch n.Parent.Kind {
	case KindMemberExpression:
		return n.Field == "property"
	case KindNestedTypeIdentifier:
		return n.Field == "name"
	}
	return false
}
