package utils

import (
	"path"
	"sort"
	"strings"
)

// FileKind classifies a workspace file for the migration.
type FileKind int

const (
	FileOther FileKind = iota
	// FileSource is a TypeScript file whose nodes are analyzed.
	FileSource
	// FileDeclaration is a `.d.ts` type definition file.
	FileDeclaration
	// FileSpec is a unit test; tests are not migrated.
	FileSpec
	// FileTemplate is an external HTML template.
	FileTemplate
)

// Walker enumerates the files below a workspace directory.
type Walker interface {
	Walk(dir string, skipDir func(name string) bool, fn func(p string) error) error
}

// FileSet holds the files of one target, sorted by path.
type FileSet struct {
	Sources   []string
	Templates []string
}

// FileProcessor decides which workspace files the migration visits.
type FileProcessor struct {
	skipDirs map[string]bool
}

// DefaultSkipDirs are directories that never contain application sources.
func DefaultSkipDirs() []string {
	return []string{"node_modules", "dist", "tmp", "out-tsc", "coverage", "bazel-out"}
}

// NewFileProcessor creates a file processor skipping DefaultSkipDirs plus
// extraSkipDirs.
func NewFileProcessor(extraSkipDirs ...string) *FileProcessor {
	skip := make(map[string]bool)
	for _, d := range DefaultSkipDirs() {
		skip[d] = true
	}
	for _, d := range extraSkipDirs {
		skip[d] = true
	}
	return &FileProcessor{skipDirs: skip}
}

// SkipDir reports whether a directory with the given base name is skipped.
// Hidden directories are always skipped.
func (fp *FileProcessor) SkipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return fp.skipDirs[name]
}

// Classify returns the kind of the file at p.
func (fp *FileProcessor) Classify(p string) FileKind {
	name := path.Base(p)
	switch {
	case strings.HasSuffix(name, ".d.ts"):
		return FileDeclaration
	case strings.HasSuffix(name, ".spec.ts"):
		return FileSpec
	case strings.HasSuffix(name, ".ts"):
		return FileSource
	case strings.HasSuffix(name, ".html"):
		return FileTemplate
	}
	return FileOther
}

// Collect walks root and returns its source files and its HTML templates.
// Files listed in exclude, such as the index pages of the target, are left
// out of the templates.
func (fp *FileProcessor) Collect(w Walker, root string, exclude ...string) (FileSet, error) {
	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		skip[p] = true
	}

	var set FileSet
	err := w.Walk(root, fp.SkipDir, func(p string) error {
		switch fp.Classify(p) {
		case FileSource:
			set.Sources = append(set.Sources, p)
		case FileTemplate:
			if !skip[p] {
				set.Templates = append(set.Templates, p)
			}
		}
		return nil
	})
	if err != nil {
		return FileSet{}, err
	}
	sort.Strings(set.Sources)
	sort.Strings(set.Templates)
	return set, nil
}
