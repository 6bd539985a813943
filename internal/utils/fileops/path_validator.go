package fileops

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PathValidator maps workspace paths ("/src/app/app.module.ts") onto the
// directory that holds the workspace and refuses paths escaping it
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator for the workspace rooted at root
func NewPathValidator(root string) (*PathValidator, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", root, err)
	}
	return &PathValidator{root: abs}, nil
}

// Root returns the absolute workspace directory
func (pv *PathValidator) Root() string {
	return pv.root
}

// Clean normalizes a workspace path. The result always starts with "/".
func (pv *PathValidator) Clean(workspacePath string) (string, error) {
	if workspacePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	p := strings.ReplaceAll(workspacePath, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("path traversal not allowed in file path: %s", workspacePath)
		}
	}
	return path.Clean(p), nil
}

// Resolve returns the OS path of a workspace path
func (pv *PathValidator) Resolve(workspacePath string) (string, error) {
	clean, err := pv.Clean(workspacePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(pv.root, filepath.FromSlash(clean)), nil
}

// WorkspacePath converts an OS path below the root into a workspace path
func (pv *PathValidator) WorkspacePath(osPath string) (string, error) {
	abs, err := filepath.Abs(osPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s: %w", osPath, err)
	}
	rel, err := filepath.Rel(pv.root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside of the workspace %s", osPath, pv.root)
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + filepath.ToSlash(rel), nil
}

// IsDir checks if a workspace path exists and is a directory
func (pv *PathValidator) IsDir(workspacePath string) bool {
	p, err := pv.Resolve(workspacePath)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// IsFile checks if a workspace path exists and is a regular file
func (pv *PathValidator) IsFile(workspacePath string) bool {
	p, err := pv.Resolve(workspacePath)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
