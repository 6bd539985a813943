package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type existing map[string]bool

func (e existing) Exists(path string) bool { return e[path] }

func TestAvailableFileName(t *testing.T) {
	assert.Equal(t, "/src/gesture-config.ts", availableFileName(existing{}, "/src/gesture-config.ts"))
	assert.Equal(t, "/src/gesture-config-1.ts",
		availableFileName(existing{"/src/gesture-config.ts": true}, "/src/gesture-config.ts"))
	assert.Equal(t, "/src/gesture-config-3.ts", availableFileName(existing{
		"/src/gesture-config.ts":   true,
		"/src/gesture-config-1.ts": true,
		"/src/gesture-config-2.ts": true,
	}, "/src/gesture-config.ts"))
}

func TestModuleSpecifier(t *testing.T) {
	tests := []struct {
		target, from, want string
	}{
		{"/src/gesture-config.ts", "/src/main.ts", "./gesture-config"},
		{"/src/gesture-config.ts", "/src/app/app.module.ts", "../gesture-config"},
		{"/src/gesture-config.ts", "/src/app/shared/deep/x.module.ts", "../../../gesture-config"},
		{"/projects/a/src/gesture-config-1.ts", "/projects/a/src/app/app.module.ts", "../gesture-config-1"},
		{"/src/lib/gesture-config.ts", "/src/main.ts", "./lib/gesture-config"},
		{"/gesture-config.ts", "/main.ts", "./gesture-config"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, moduleSpecifier(tt.target, tt.from), tt.from)
	}
}

func TestResolveImport(t *testing.T) {
	files := existing{
		"/src/app/app.module.ts":   true,
		"/src/app/shared/index.ts": true,
	}

	got, ok := resolveImport(files, "/src/main.ts", "./app/app.module")
	assert.True(t, ok)
	assert.Equal(t, "/src/app/app.module.ts", got)

	got, ok = resolveImport(files, "/src/app/app.module.ts", "./shared")
	assert.True(t, ok)
	assert.Equal(t, "/src/app/shared/index.ts", got)

	_, ok = resolveImport(files, "/src/main.ts", "@angular/core")
	assert.False(t, ok)
	_, ok = resolveImport(files, "/src/main.ts", "./missing")
	assert.False(t, ok)
}
