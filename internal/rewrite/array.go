package rewrite

import (
	"fmt"

	"github.com/toyz/ngmigrate/internal/tsast"
)

// ElementRemover batches removals of array literal elements so that several
// elements of the same array can be dropped with consistent punctuation.
type ElementRemover struct {
	editor Editor
	arrays map[tsast.NodeKey]*pendingArray
	order  []tsast.NodeKey
}

type pendingArray struct {
	array   *tsast.Node
	removed map[int]bool
}

// NewElementRemover creates a remover writing through editor.
func NewElementRemover(editor Editor) *ElementRemover {
	return &ElementRemover{
		editor: editor,
		arrays: make(map[tsast.NodeKey]*pendingArray),
	}
}

// Remove schedules the removal of element from its array literal.
func (r *ElementRemover) Remove(element *tsast.Node) error {
	array := element.Parent
	if array == nil || array.Kind != tsast.KindArray {
		return fmt.Errorf("%s: node %q is not an array element", element.File.Path, element.Text())
	}
	key := array.Key()
	p, ok := r.arrays[key]
	if !ok {
		p = &pendingArray{array: array, removed: make(map[int]bool)}
		r.arrays[key] = p
		r.order = append(r.order, key)
	}
	p.removed[element.ID] = true
	return nil
}

// Commit turns the scheduled removals into recorder edits.
func (r *ElementRemover) Commit() error {
	for _, key := range r.order {
		p := r.arrays[key]
		elements := p.array.NamedChildren()
		items := make([]Span, len(elements))
		remove := make([]bool, len(elements))
		for i, el := range elements {
			items[i] = NodeSpan(el)
			remove[i] = p.removed[el.ID]
		}
		rec, err := r.editor.Edit(p.array.File.Path)
		if err != nil {
			return err
		}
		for _, s := range ListRemovals(p.array.File.Text, items, remove) {
			rec.Remove(s.Start, s.End-s.Start)
		}
	}
	r.arrays = make(map[tsast.NodeKey]*pendingArray)
	r.order = nil
	return nil
}
