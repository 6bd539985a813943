package rewrite

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ngmigrate/internal/tsast"
)

type memEditor struct {
	files map[string]string
	recs  map[string]*Recorder
}

func newMemEditor(files map[string]string) *memEditor {
	return &memEditor{files: files, recs: make(map[string]*Recorder)}
}

func (m *memEditor) Edit(path string) (*Recorder, error) {
	if rec, ok := m.recs[path]; ok {
		return rec, nil
	}
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	rec := NewRecorder(path, content)
	m.recs[path] = rec
	return rec, nil
}

func (m *memEditor) Read(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func (m *memEditor) result(t *testing.T, path string) string {
	t.Helper()
	rec, ok := m.recs[path]
	if !ok {
		return m.files[path]
	}
	out, err := rec.Apply()
	require.NoError(t, err)
	return out
}

func parse(t *testing.T, path, src string) *tsast.SourceFile {
	t.Helper()
	f, err := tsast.Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return f
}

func TestRecorder_Apply(t *testing.T) {
	tests := []struct {
		name  string
		input string
		edit  func(r *Recorder)
		want  string
	}{
		{
			name:  "remove",
			input: "abcdef",
			edit:  func(r *Recorder) { r.Remove(1, 2) },
			want:  "adef",
		},
		{
			name:  "insert keeps queue order",
			input: "ad",
			edit: func(r *Recorder) {
				r.InsertRight(1, "b")
				r.InsertRight(1, "c")
			},
			want: "abcd",
		},
		{
			name:  "replace",
			input: "hello world",
			edit:  func(r *Recorder) { r.Replace(6, 5, "there") },
			want:  "hello there",
		},
		{
			name:  "edits queued out of order",
			input: "0123456789",
			edit: func(r *Recorder) {
				r.Remove(8, 2)
				r.InsertRight(0, ">")
				r.Remove(2, 3)
			},
			want: ">01567",
		},
		{
			name:  "duplicate and nested removals collapse",
			input: "0123456789",
			edit: func(r *Recorder) {
				r.Remove(2, 4)
				r.Remove(2, 4)
				r.Remove(3, 1)
			},
			want: "016789",
		},
		{
			name:  "insert at removal end",
			input: "abc",
			edit: func(r *Recorder) {
				r.Remove(0, 1)
				r.InsertRight(1, "X")
			},
			want: "Xbc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecorder("/f.ts", tt.input)
			tt.edit(rec)
			got, err := rec.Apply()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecorder_Overlap(t *testing.T) {
	rec := NewRecorder("/f.ts", "0123456789")
	rec.Remove(1, 4)
	rec.Remove(3, 4)
	_, err := rec.Apply()
	assert.ErrorIs(t, err, ErrOverlappingEdits)

	rec = NewRecorder("/f.ts", "0123456789")
	rec.Remove(1, 4)
	rec.InsertRight(2, "x")
	_, err = rec.Apply()
	assert.ErrorIs(t, err, ErrOverlappingEdits)
}

func positionOf(text string, offset int) tsast.LineCol {
	before := text[:offset]
	line := strings.Count(before, "\n")
	return tsast.LineCol{Line: line, Character: offset - (strings.LastIndex(before, "\n") + 1)}
}

func TestRecorder_CorrectPosition(t *testing.T) {
	original := "import { A, B } from 'x';\nimport 'hammerjs';\n\nconst a = [\n  A,\n  B\n];\nconst MARK = 1;\n"
	mark := strings.Index(original, "MARK")

	tests := []struct {
		name string
		edit func(r *Recorder)
	}{
		{name: "no edits", edit: func(r *Recorder) {}},
		{
			name: "removed lines before",
			edit: func(r *Recorder) {
				start := strings.Index(original, "import 'hammerjs'")
				r.Remove(start, len("import 'hammerjs';\n"))
			},
		},
		{
			name: "inserted lines before",
			edit: func(r *Recorder) {
				r.InsertRight(0, "import { X } from 'y';\nimport { Y } from 'z';\n")
			},
		},
		{
			name: "insert on the same line",
			edit: func(r *Recorder) {
				r.InsertRight(strings.Index(original, "const MARK"), "/* c */ ")
			},
		},
		{
			name: "removal spanning the previous line break",
			edit: func(r *Recorder) {
				start := strings.Index(original, "\n];") + 1
				r.Remove(start, mark-start)
			},
		},
		{
			name: "edits after the offset",
			edit: func(r *Recorder) {
				r.InsertRight(len(original)-1, "\n\n\n")
				r.Remove(mark+4, 2)
			},
		},
		{
			name: "mixed",
			edit: func(r *Recorder) {
				r.Remove(strings.Index(original, "A, "), 3)
				r.InsertRight(strings.Index(original, "  B")+3, ",\n  HammerModule")
				r.Replace(strings.Index(original, "'x'"), 3, "'./a/b'")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecorder("/f.ts", original)
			tt.edit(rec)
			applied, err := rec.Apply()
			require.NoError(t, err)

			want := positionOf(applied, strings.Index(applied, "MARK"))
			assert.Equal(t, want, rec.CorrectPosition(mark))
		})
	}
}

func TestRecorder_CorrectPosition_ReplacedNode(t *testing.T) {
	original := "providers: [\n  { provide: TOKEN, useClass: Config },\n]\n"
	start := strings.Index(original, "{ provide")
	width := len("{ provide: TOKEN, useClass: Config }")

	rec := NewRecorder("/f.ts", original)
	rec.InsertRight(0, "// header\n")
	rec.Replace(start, width, "/* TODO: remove */ {}")
	applied, err := rec.Apply()
	require.NoError(t, err)

	pos := rec.CorrectPosition(start)
	assert.Equal(t, tsast.LineCol{Line: 2, Character: 2}, pos)

	lines := strings.Split(applied, "\n")
	assert.True(t, strings.HasPrefix(lines[pos.Line][pos.Character:], "/* TODO: remove */"))
}

func TestListRemovals(t *testing.T) {
	text := "a, b, c"
	items := []Span{{0, 1}, {3, 4}, {6, 7}}

	apply := func(spans []Span) string {
		rec := NewRecorder("/f", text)
		for _, s := range spans {
			rec.Remove(s.Start, s.End-s.Start)
		}
		out, err := rec.Apply()
		require.NoError(t, err)
		return out
	}

	tests := []struct {
		remove []bool
		want   string
	}{
		{[]bool{true, false, false}, "b, c"},
		{[]bool{false, true, false}, "a, c"},
		{[]bool{false, false, true}, "a, b"},
		{[]bool{true, true, false}, "c"},
		{[]bool{false, true, true}, "a"},
		{[]bool{true, false, true}, "b"},
		{[]bool{true, true, true}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, apply(ListRemovals(text, items, tt.remove)), "%v", tt.remove)
	}
}

func TestElementRemover(t *testing.T) {
	src := "const providers = [\n  A,\n  B,\n  C\n];\n"
	editor := newMemEditor(map[string]string{"/f.ts": src})
	f := parse(t, "/f.ts", src)

	remover := NewElementRemover(editor)
	for _, n := range f.Nodes {
		if n.Kind == tsast.KindIdentifier && (n.Text() == "B" || n.Text() == "C") {
			require.NoError(t, remover.Remove(n))
		}
	}
	require.NoError(t, remover.Commit())
	assert.Equal(t, "const providers = [\n  A\n];\n", editor.result(t, "/f.ts"))

	var notElement *tsast.Node
	for _, n := range f.Nodes {
		if n.Kind == tsast.KindIdentifier && n.Text() == "providers" {
			notElement = n
		}
	}
	assert.Error(t, remover.Remove(notElement))
}
