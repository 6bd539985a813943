package rewrite

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/ngmigrate/internal/tsast"
)

// ErrOverlappingEdits is returned when two queued edits touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Edit is a single queued change. A zero Length with non-empty Text is an
// insertion; a positive Length is a removal.
type Edit struct {
	Offset int
	Length int
	Text   string

	seq int
}

// End returns the first byte after the removed range.
func (e Edit) End() int {
	return e.Offset + e.Length
}

// IsInsert reports whether the edit inserts text.
func (e Edit) IsInsert() bool {
	return e.Length == 0
}

// Editor opens a file's recorder for editing.
type Editor interface {
	Edit(path string) (*Recorder, error)
}

// Recorder queues edits against the original text of one file. Offsets
// always refer to the original text.
type Recorder struct {
	path     string
	original string
	edits    []Edit
}

// NewRecorder creates a recorder for the given original content.
func NewRecorder(path, original string) *Recorder {
	return &Recorder{path: path, original: original}
}

// Path returns the file the recorder edits.
func (r *Recorder) Path() string {
	return r.path
}

// Original returns the unedited content.
func (r *Recorder) Original() string {
	return r.original
}

// HasChanges reports whether any edit was queued.
func (r *Recorder) HasChanges() bool {
	return len(r.edits) > 0
}

// Remove queues the removal of length bytes at offset.
func (r *Recorder) Remove(offset, length int) {
	if length <= 0 {
		return
	}
	r.edits = append(r.edits, Edit{Offset: offset, Length: length, seq: len(r.edits)})
}

// InsertRight queues text to be inserted at offset, after any text inserted
// earlier at the same offset.
func (r *Recorder) InsertRight(offset int, text string) {
	if text == "" {
		return
	}
	r.edits = append(r.edits, Edit{Offset: offset, Text: text, seq: len(r.edits)})
}

// Replace queues the replacement of length bytes at offset with text.
func (r *Recorder) Replace(offset, length int, text string) {
	r.InsertRight(offset, text)
	r.Remove(offset, length)
}

// RemoveNode queues the removal of a node's text.
func (r *Recorder) RemoveNode(n *tsast.Node) {
	r.Remove(n.Start, n.Width())
}

// ReplaceNode queues the replacement of a node's text.
func (r *Recorder) ReplaceNode(n *tsast.Node, text string) {
	r.Replace(n.Start, n.Width(), text)
}

// Edits returns the queued edits in application order.
func (r *Recorder) Edits() ([]Edit, error) {
	return normalize(r.edits)
}

// Apply returns the original content with all queued edits applied.
func (r *Recorder) Apply() (string, error) {
	edits, err := normalize(r.edits)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.path, err)
	}

	var b strings.Builder
	b.Grow(len(r.original))
	pos := 0
	for _, e := range edits {
		if e.Offset > pos {
			b.WriteString(r.original[pos:e.Offset])
			pos = e.Offset
		}
		if e.IsInsert() {
			b.WriteString(e.Text)
			continue
		}
		pos = e.End()
	}
	b.WriteString(r.original[pos:])
	return b.String(), nil
}

// normalize sorts edits, drops removals contained in other removals and
// rejects partial overlaps. Insertions sort before removals at the same
// offset and keep their queue order.
func normalize(in []Edit) ([]Edit, error) {
	edits := make([]Edit, len(in))
	copy(edits, in)
	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		if a.IsInsert() != b.IsInsert() {
			return a.IsInsert()
		}
		if !a.IsInsert() && a.Length != b.Length {
			return a.Length > b.Length
		}
		return a.seq < b.seq
	})

	out := edits[:0]
	removedEnd := -1
	for _, e := range edits {
		if e.IsInsert() {
			if e.Offset < removedEnd && e.Offset > lastRemovalStart(out) {
				return nil, fmt.Errorf("%w: insertion at %d falls inside a removed range", ErrOverlappingEdits, e.Offset)
			}
			out = append(out, e)
			continue
		}
		if e.Offset < removedEnd {
			if e.End() <= removedEnd {
				continue
			}
			return nil, fmt.Errorf("%w: removal [%d,%d) crosses removal ending at %d", ErrOverlappingEdits, e.Offset, e.End(), removedEnd)
		}
		out = append(out, e)
		removedEnd = e.End()
	}
	return out, nil
}

func lastRemovalStart(edits []Edit) int {
	for i := len(edits) - 1; i >= 0; i-- {
		if !edits[i].IsInsert() {
			return edits[i].Offset
		}
	}
	return -1
}

// CorrectPosition maps an offset in the original text to the line and column
// it occupies once every queued edit is applied. Only edits starting before
// offset are counted, so text inserted at offset itself, such as a
// replacement of the node there, begins at the returned position. It only
// looks at the original text and the queued edits.
func (r *Recorder) CorrectPosition(offset int) tsast.LineCol {
	edits, err := normalize(r.edits)
	if err != nil {
		edits = r.edits
	}

	var pieces []string
	pos := 0
	for _, e := range edits {
		if e.Offset >= offset {
			break
		}
		if e.Offset > pos {
			pieces = append(pieces, r.original[pos:e.Offset])
			pos = e.Offset
		}
		if e.IsInsert() {
			pieces = append(pieces, e.Text)
			continue
		}
		pos = max(pos, min(e.End(), offset))
	}
	if offset > pos {
		pieces = append(pieces, r.original[pos:offset])
	}

	var pc tsast.LineCol
	for _, p := range pieces {
		pc.Line += strings.Count(p, "\n")
	}
	for i := len(pieces) - 1; i >= 0; i-- {
		p := pieces[i]
		if k := strings.LastIndexByte(p, '\n'); k >= 0 {
			pc.Character += len(p) - k - 1
			return pc
		}
		pc.Character += len(p)
	}
	return pc
}
