package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/toyz/ngmigrate/internal/tsast"
)

// ErrNotArrayLiteral is returned when a metadata field cannot be extended
// because its value is not written as an array literal.
var ErrNotArrayLiteral = errors.New("metadata field is not an array literal")

// ClassDecorators returns the decorators attached to a class declaration,
// including those written before an `export` keyword.
func ClassDecorators(class *tsast.Node) []*tsast.Node {
	var out []*tsast.Node
	if p := class.Parent; p != nil && p.Kind == tsast.KindExportStatement {
		for _, c := range p.Children {
			if c.Kind == tsast.KindDecorator {
				out = append(out, c)
			}
		}
	}
	for _, c := range class.Children {
		if c.Kind == tsast.KindDecorator {
			out = append(out, c)
		}
	}
	return out
}

// DecoratorMetadata returns the object literal passed to the class decorator
// that resolves to symbol imported from module.
func DecoratorMetadata(resolver tsast.Resolver, class *tsast.Node, symbol, module string) *tsast.Node {
	for _, dec := range ClassDecorators(class) {
		call := dec.ChildOfKind(tsast.KindCallExpression)
		if call == nil {
			continue
		}
		fn := call.ChildByField("function")
		if fn != nil && fn.Kind == tsast.KindMemberExpression {
			fn = fn.ChildByField("property")
		}
		if fn == nil {
			continue
		}
		imp, ok := resolver.ImportOf(fn)
		if !ok || imp.Symbol != symbol || imp.Module != module {
			continue
		}
		args := call.ChildByField("arguments")
		if args == nil {
			continue
		}
		named := args.NamedChildren()
		if len(named) == 0 {
			continue
		}
		if obj := tsast.Unwrap(named[0]); obj.Kind == tsast.KindObject {
			return obj
		}
	}
	return nil
}

// MetadataField returns the property of an object literal with the given
// static name.
func MetadataField(obj *tsast.Node, name string) *tsast.Node {
	for _, c := range obj.NamedChildren() {
		if c.Kind != tsast.KindPair {
			continue
		}
		if key, ok := tsast.PropertyName(c.ChildByField("key")); ok && key == name {
			return c
		}
	}
	return nil
}

// MetadataElements returns the elements of an array-valued metadata field.
func MetadataElements(obj *tsast.Node, name string) []*tsast.Node {
	pair := MetadataField(obj, name)
	if pair == nil {
		return nil
	}
	value := tsast.Unwrap(pair.ChildByField("value"))
	if value == nil || value.Kind != tsast.KindArray {
		return nil
	}
	return value.NamedChildren()
}

// AddSymbolToMetadata appends expr to the array held by field of the object
// literal obj, creating the field when it is missing.
func AddSymbolToMetadata(rec *Recorder, obj *tsast.Node, field, expr string) error {
	pair := MetadataField(obj, field)
	if pair == nil {
		return appendProperty(rec, obj, fmt.Sprintf("%s: [%s]", field, expr))
	}

	value := tsast.Unwrap(pair.ChildByField("value"))
	if value == nil || value.Kind != tsast.KindArray {
		return fmt.Errorf("%w: %s", ErrNotArrayLiteral, field)
	}
	elements := value.NamedChildren()
	if len(elements) == 0 {
		rec.InsertRight(value.Start+1, expr)
		return nil
	}
	last := elements[len(elements)-1]
	rec.InsertRight(last.End, separator(value, last)+expr)
	return nil
}

func appendProperty(rec *Recorder, obj *tsast.Node, property string) error {
	props := obj.NamedChildren()
	if len(props) == 0 {
		rec.InsertRight(obj.Start+1, property)
		return nil
	}
	last := props[len(props)-1]
	rec.InsertRight(last.End, separator(obj, last)+property)
	return nil
}

// separator returns the text placed between the last element of a literal
// and an appended one, keeping multi-line literals one entry per line.
func separator(literal, last *tsast.Node) string {
	if !strings.Contains(literal.Text(), "\n") {
		return ", "
	}
	if indent := lineIndent(last); indent != "" {
		return ",\n" + indent
	}
	return ", "
}

// FindBootstrapModule returns the expression passed to `bootstrapModule` in a
// main file.
func FindBootstrapModule(main *tsast.SourceFile) *tsast.Node {
	var found *tsast.Node
	main.Root.Walk(func(n *tsast.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind != tsast.KindCallExpression {
			return true
		}
		fn := n.ChildByField("function")
		if fn == nil || fn.Kind != tsast.KindMemberExpression {
			return true
		}
		prop := fn.ChildByField("property")
		if prop == nil || prop.Text() != "bootstrapModule" {
			return true
		}
		if args := n.ChildByField("arguments"); args != nil {
			if named := args.NamedChildren(); len(named) > 0 {
				found = tsast.Unwrap(named[0])
			}
		}
		return found == nil
	})
	return found
}

// FindClass returns the class declaration named name in file.
func FindClass(file *tsast.SourceFile, name string) *tsast.Node {
	var found *tsast.Node
	file.Root.Walk(func(n *tsast.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == tsast.KindClassDeclaration {
			if id := n.ChildByField("name"); id != nil && id.Text() == name {
				found = n
			}
			return false
		}
		return true
	})
	return found
}
