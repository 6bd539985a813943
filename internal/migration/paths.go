package migration

import (
	"fmt"
	"path"
	"strings"
)

const gestureConfigFileName = "gesture-config.ts"

type fileChecker interface {
	Exists(path string) bool
}

func joinPath(dir, name string) string {
	return path.Join("/", dir, name)
}

// availableFileName returns p, or the first of "name-1.ext", "name-2.ext",
// ... in the same directory that does not exist yet.
func availableFileName(files fileChecker, p string) string {
	if !files.Exists(p) {
		return p
	}
	dir := path.Dir(p)
	ext := path.Ext(p)
	base := strings.TrimSuffix(path.Base(p), ext)
	for i := 1; ; i++ {
		candidate := path.Join(dir, fmt.Sprintf("%s-%d%s", base, i, ext))
		if !files.Exists(candidate) {
			return candidate
		}
	}
}

// moduleSpecifier returns the relative import specifier of target as seen
// from containingFile, without the ".ts" extension.
func moduleSpecifier(target, containingFile string) string {
	spec := strings.TrimSuffix(relativePath(path.Dir(containingFile), target), ".ts")
	if !strings.HasPrefix(spec, ".") {
		spec = "./" + spec
	}
	return spec
}

// relativePath computes the slash path of target relative to dir. Both are
// absolute workspace paths.
func relativePath(dir, target string) string {
	from := splitPath(dir)
	to := splitPath(target)
	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}
	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// resolveImport resolves a relative module specifier to a TypeScript file.
func resolveImport(files fileChecker, from, specifier string) (string, bool) {
	if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") {
		return "", false
	}
	base := path.Join(path.Dir(from), specifier)
	for _, candidate := range []string{base + ".ts", base + "/index.ts"} {
		if files.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
