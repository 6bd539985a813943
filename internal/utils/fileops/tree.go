package fileops

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/toyz/ngmigrate/internal/errors"
	"github.com/toyz/ngmigrate/internal/rewrite"
)

// Tree is the file tree a migration reads and changes. All paths are
// workspace paths starting with "/".
type Tree interface {
	Read(path string) ([]byte, error)
	Exists(path string) bool
	Create(path string, content []byte) error
	Overwrite(path string, content []byte) error
	Edit(path string) (*rewrite.Recorder, error)
}

// FileChange describes one file changed by Commit
type FileChange struct {
	Path    string `json:"path"`
	Created bool   `json:"created,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

// DiskTree is a Tree over a directory. Changes are staged in memory until
// Commit, which writes them unless the tree is in dry-run mode.
type DiskTree struct {
	validator *PathValidator
	errs      *ErrorWrapper
	dryRun    bool

	mu        sync.Mutex
	originals map[string][]byte
	created   map[string]bool
	staged    map[string][]byte
	recorders map[string]*rewrite.Recorder
	order     []string
}

// NewDiskTree creates a tree rooted at dir
func NewDiskTree(dir string, dryRun bool) (*DiskTree, error) {
	validator, err := NewPathValidator(dir)
	if err != nil {
		return nil, err
	}
	if !validator.IsDir("/") {
		return nil, errors.WrapFileSystemError("open", dir, fs.ErrNotExist)
	}
	return &DiskTree{
		validator: validator,
		errs:      NewErrorWrapper(),
		dryRun:    dryRun,
		originals: make(map[string][]byte),
		created:   make(map[string]bool),
		staged:    make(map[string][]byte),
		recorders: make(map[string]*rewrite.Recorder),
	}, nil
}

// Root returns the absolute directory of the tree
func (t *DiskTree) Root() string {
	return t.validator.Root()
}

// DryRun reports whether Commit leaves the disk untouched
func (t *DiskTree) DryRun() bool {
	return t.dryRun
}

// Read returns the current content of a file, including staged changes
func (t *DiskTree) Read(p string) ([]byte, error) {
	clean, err := t.validator.Clean(p)
	if err != nil {
		return nil, t.errs.WrapPathResolutionError(p, err)
	}
	t.mu.Lock()
	content, ok := t.staged[clean]
	t.mu.Unlock()
	if ok {
		return bytes.Clone(content), nil
	}
	return t.readDisk(clean)
}

func (t *DiskTree) readDisk(clean string) ([]byte, error) {
	osPath, err := t.validator.Resolve(clean)
	if err != nil {
		return nil, t.errs.WrapPathResolutionError(clean, err)
	}
	content, err := os.ReadFile(osPath)
	if err != nil {
		return nil, t.errs.WrapFileReadError(clean, err)
	}
	return content, nil
}

// Exists reports whether a file exists on disk or was created in the tree
func (t *DiskTree) Exists(p string) bool {
	clean, err := t.validator.Clean(p)
	if err != nil {
		return false
	}
	t.mu.Lock()
	_, ok := t.staged[clean]
	t.mu.Unlock()
	return ok || t.validator.IsFile(clean)
}

// Create stages a new file. It fails when the file already exists.
func (t *DiskTree) Create(p string, content []byte) error {
	clean, err := t.validator.Clean(p)
	if err != nil {
		return t.errs.WrapPathResolutionError(p, err)
	}
	if t.Exists(clean) {
		return t.errs.WrapFileCreateError(clean, fs.ErrExist)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.created[clean] = true
	t.stage(clean, bytes.Clone(content))
	return nil
}

// Overwrite replaces the content of an existing file. Pending edits of the
// file are discarded.
func (t *DiskTree) Overwrite(p string, content []byte) error {
	clean, err := t.validator.Clean(p)
	if err != nil {
		return t.errs.WrapPathResolutionError(p, err)
	}
	if !t.Exists(clean) {
		return t.errs.WrapFileWriteError(clean, fs.ErrNotExist)
	}
	if err := t.rememberOriginal(clean); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.recorders, clean)
	t.stage(clean, bytes.Clone(content))
	return nil
}

// Edit returns the recorder queuing edits against the current content of a
// file. Repeated calls for the same path return the same recorder until
// Flush.
func (t *DiskTree) Edit(p string) (*rewrite.Recorder, error) {
	clean, err := t.validator.Clean(p)
	if err != nil {
		return nil, t.errs.WrapPathResolutionError(p, err)
	}
	t.mu.Lock()
	rec, ok := t.recorders[clean]
	t.mu.Unlock()
	if ok {
		return rec, nil
	}
	content, err := t.Read(clean)
	if err != nil {
		return nil, err
	}
	rec = rewrite.NewRecorder(clean, string(content))
	t.mu.Lock()
	t.recorders[clean] = rec
	t.mu.Unlock()
	return rec, nil
}

// Walk calls fn for every file below dir, skipping directories for which
// skipDir returns true. Files created in the tree are included.
func (t *DiskTree) Walk(dir string, skipDir func(name string) bool, fn func(p string) error) error {
	clean, err := t.validator.Clean(dir)
	if err != nil {
		return t.errs.WrapPathResolutionError(dir, err)
	}
	osDir, err := t.validator.Resolve(clean)
	if err != nil {
		return t.errs.WrapPathResolutionError(dir, err)
	}

	seen := make(map[string]bool)
	err = filepath.WalkDir(osDir, func(osPath string, d fs.DirEntry, err error) error {
		if err != nil {
			if osPath == osDir && os.IsNotExist(err) {
				return fs.SkipDir
			}
			return t.errs.WrapDirectoryReadError(osPath, err)
		}
		if d.IsDir() {
			if osPath != osDir && skipDir != nil && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		wp, err := t.validator.WorkspacePath(osPath)
		if err != nil {
			return t.errs.WrapPathResolutionError(osPath, err)
		}
		seen[wp] = true
		return fn(wp)
	})
	if err != nil {
		return err
	}

	t.mu.Lock()
	var extra []string
	for p := range t.created {
		if !seen[p] && isBelow(p, clean) {
			extra = append(extra, p)
		}
	}
	t.mu.Unlock()
	sort.Strings(extra)
	for _, p := range extra {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func isBelow(p, dir string) bool {
	if dir == "/" {
		return true
	}
	return strings.HasPrefix(p, dir+"/")
}

// Flush applies the queued edits of every recorder to the staged content
// and returns the paths whose content changed. A file whose edits overlap is
// left unchanged and reported in the returned error.
func (t *DiskTree) Flush() ([]string, error) {
	t.mu.Lock()
	paths := make([]string, 0, len(t.recorders))
	for p := range t.recorders {
		paths = append(paths, p)
	}
	recorders := t.recorders
	t.recorders = make(map[string]*rewrite.Recorder)
	t.mu.Unlock()
	sort.Strings(paths)

	var errs errors.MultipleErrors
	var changed []string
	for _, p := range paths {
		rec := recorders[p]
		if !rec.HasChanges() {
			continue
		}
		content, err := rec.Apply()
		if err != nil {
			errs.Add(errors.EditConflictError(p, err))
			continue
		}
		if content == rec.Original() {
			continue
		}
		if err := t.rememberOriginal(p); err != nil {
			errs.Add(errors.WrapFileSystemError("read", p, err))
			continue
		}
		t.mu.Lock()
		t.stage(p, []byte(content))
		t.mu.Unlock()
		changed = append(changed, p)
	}
	return changed, errs.ErrorOrNil()
}

// Commit flushes pending edits and writes every staged file. In dry-run mode
// nothing is written; the returned changes carry unified diffs either way.
func (t *DiskTree) Commit() ([]FileChange, error) {
	_, flushErr := t.Flush()

	t.mu.Lock()
	defer t.mu.Unlock()

	var changes []FileChange
	for _, p := range t.order {
		content := t.staged[p]
		original := t.originals[p]
		if !t.created[p] && bytes.Equal(original, content) {
			continue
		}
		from := "a" + p
		if t.created[p] {
			from = "/dev/null"
		}
		changes = append(changes, FileChange{
			Path:    p,
			Created: t.created[p],
			Diff:    unifiedDiff(from, "b"+p, original, content),
		})
		if t.dryRun {
			continue
		}
		if err := t.write(p, content); err != nil {
			return changes, err
		}
	}

	if !t.dryRun {
		t.originals = make(map[string][]byte)
		t.created = make(map[string]bool)
		t.staged = make(map[string][]byte)
		t.order = nil
	}
	return changes, flushErr
}

func (t *DiskTree) write(p string, content []byte) error {
	osPath, err := t.validator.Resolve(p)
	if err != nil {
		return t.errs.WrapPathResolutionError(p, err)
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(osPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(osPath), 0o755); err != nil {
		return t.errs.WrapFileWriteError(path.Dir(p), err)
	}
	if err := os.WriteFile(osPath, content, mode); err != nil {
		return t.errs.WrapFileWriteError(p, err)
	}
	return nil
}

// rememberOriginal keeps the on-disk content of p before its first change.
func (t *DiskTree) rememberOriginal(p string) error {
	t.mu.Lock()
	_, known := t.originals[p]
	created := t.created[p]
	t.mu.Unlock()
	if known || created {
		return nil
	}
	content, err := t.readDisk(p)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.originals[p] = content
	t.mu.Unlock()
	return nil
}

// stage must be called with t.mu held.
func (t *DiskTree) stage(p string, content []byte) {
	if _, ok := t.staged[p]; !ok {
		t.order = append(t.order, p)
	}
	t.staged[p] = content
}

func unifiedDiff(from, to string, a, b []byte) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}
