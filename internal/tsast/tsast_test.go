package tsast

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[string]string

func (m mapReader) Read(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func newTestProvider(t *testing.T, files mapReader) *Provider {
	t.Helper()
	p, err := NewProvider(files, 0)
	require.NoError(t, err)
	return p
}

func findIdentifiers(f *SourceFile, text string) []*Node {
	var out []*Node
	for _, n := range f.Nodes {
		if n.IsIdentifierLike() && n.Text() == text {
			out = append(out, n)
		}
	}
	return out
}

func TestParse_PreOrderIDs(t *testing.T) {
	f, err := Parse(context.Background(), "/a.ts", []byte("const a = 1;\nlet b = a;\n"))
	require.NoError(t, err)

	assert.Equal(t, KindProgram, f.Root.Kind)
	for i, n := range f.Nodes {
		assert.Equal(t, i, n.ID)
		if n.Parent != nil {
			assert.Less(t, n.Parent.ID, n.ID)
		}
	}

	again, err := Parse(context.Background(), "/a.ts", []byte("const a = 1;\nlet b = a;\n"))
	require.NoError(t, err)
	assert.Len(t, again.Nodes, len(f.Nodes))
}

func TestParse_Imports(t *testing.T) {
	src := `import 'hammerjs';
import {} from 'empty';
import Def, {A, B as C} from './x';
import * as ns from '@angular/material/core';
`
	f, err := Parse(context.Background(), "/a.ts", []byte(src))
	require.NoError(t, err)
	require.Len(t, f.Imports, 4)

	assert.True(t, f.Imports[0].IsBare())
	assert.Equal(t, "hammerjs", f.Imports[0].Module)
	assert.True(t, f.Imports[1].IsBare())

	x := f.Imports[2]
	assert.False(t, x.IsBare())
	require.NotNil(t, x.Default)
	assert.Equal(t, "Def", x.Default.Text())
	require.Len(t, x.Specifiers, 2)
	assert.Equal(t, "A", x.Specifiers[0].Name)
	assert.Equal(t, "B", x.Specifiers[1].Name)
	assert.Equal(t, "C", x.Specifiers[1].Local.Text())

	ns, ok := f.NamespaceFor("@angular/material/core")
	assert.True(t, ok)
	assert.Equal(t, "ns", ns)
}

func TestParse_Position(t *testing.T) {
	f, err := Parse(context.Background(), "/a.ts", []byte("a;\nbb;\nccc;"))
	require.NoError(t, err)

	assert.Equal(t, LineCol{Line: 0, Character: 0}, f.Position(0))
	assert.Equal(t, LineCol{Line: 1, Character: 1}, f.Position(4))
	assert.Equal(t, LineCol{Line: 2, Character: 2}, f.Position(9))
}

func TestProvider_ImportOf(t *testing.T) {
	files := mapReader{
		"/app.module.ts": `import {GestureConfig as GC, HAMMER_GESTURE_CONFIG} from '@angular/material/core';
import * as pb from '@angular/platform-browser';

const providers = [{provide: HAMMER_GESTURE_CONFIG, useClass: GC}];
const mod = pb.HammerModule;
let cfg: pb.HammerGestureConfig;
const GestureConfig = 1;
`,
	}
	p := newTestProvider(t, files)
	f, err := p.File("/app.module.ts")
	require.NoError(t, err)

	tests := []struct {
		text   string
		index  int
		want   Import
		wantOK bool
	}{
		{text: "GestureConfig", index: 0, wantOK: false},
		{text: "GC", index: 0, want: Import{Symbol: "GestureConfig", Module: "@angular/material/core"}, wantOK: true},
		{text: "GC", index: 1, want: Import{Symbol: "GestureConfig", Module: "@angular/material/core"}, wantOK: true},
		{text: "HAMMER_GESTURE_CONFIG", index: 1, want: Import{Symbol: "HAMMER_GESTURE_CONFIG", Module: "@angular/material/core"}, wantOK: true},
		{text: "HammerModule", index: 0, want: Import{Symbol: "HammerModule", Module: "@angular/platform-browser"}, wantOK: true},
		{text: "HammerGestureConfig", index: 0, want: Import{Symbol: "HammerGestureConfig", Module: "@angular/platform-browser"}, wantOK: true},
		{text: "pb", index: 1, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			nodes := findIdentifiers(f, tt.text)
			require.Greater(t, len(nodes), tt.index)
			got, ok := p.ImportOf(nodes[tt.index])
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestProvider_AmbientDeclarationOf(t *testing.T) {
	files := mapReader{
		"/node_modules/@types/hammerjs/index.d.ts": "declare var Hammer: HammerStatic;\ninterface HammerStatic { VERSION: number; }\n",
		"/main.ts":  "const h = new Hammer(el);\n",
		"/local.ts": "declare var Hammer: any;\nconst h = new Hammer(el);\n",
	}
	p := newTestProvider(t, files)
	require.NoError(t, p.AddAmbientTypes(context.Background(), "/node_modules/@types/hammerjs/index.d.ts"))

	main, err := p.File("/main.ts")
	require.NoError(t, err)
	path, ok := p.AmbientDeclarationOf(findIdentifiers(main, "Hammer")[0])
	assert.True(t, ok)
	assert.Contains(t, path, "@types/hammerjs")

	local, err := p.File("/local.ts")
	require.NoError(t, err)
	ids := findIdentifiers(local, "Hammer")
	_, ok = p.AmbientDeclarationOf(ids[len(ids)-1])
	assert.False(t, ok)

	assert.False(t, main.Bound("Hammer"))
	assert.True(t, local.Bound("Hammer"))
}

func TestProvider_PreloadAndInvalidate(t *testing.T) {
	files := mapReader{"/a.ts": "const a = 1;", "/b.ts": "const b = 2;"}
	p := newTestProvider(t, files)

	require.NoError(t, p.Preload(context.Background(), []string{"/a.ts", "/b.ts"}))
	assert.True(t, p.cache.Contains("/a.ts"))
	assert.True(t, p.cache.Contains("/b.ts"))

	p.Invalidate("/a.ts")
	assert.False(t, p.cache.Contains("/a.ts"))

	err := p.Preload(context.Background(), []string{"/missing.ts"})
	assert.Error(t, err)
}

func TestUnwrap(t *testing.T) {
	f, err := Parse(context.Background(), "/a.ts", []byte("((window as any))!;"))
	require.NoError(t, err)

	stmt := f.Root.NamedChildren()[0]
	expr := stmt.NamedChildren()[0]
	got := Unwrap(expr)
	assert.Equal(t, KindIdentifier, got.Kind)
	assert.Equal(t, "window", got.Text())
}
