package fileops

import (
	"github.com/toyz/ngmigrate/internal/errors"
)

// ErrorWrapper provides consistent error wrapping for file operations
type ErrorWrapper struct{}

// NewErrorWrapper creates a new ErrorWrapper instance
func NewErrorWrapper() *ErrorWrapper {
	return &ErrorWrapper{}
}

// WrapFileReadError wraps file reading errors with context
func (ew *ErrorWrapper) WrapFileReadError(filePath string, err error) error {
	return errors.WrapFileSystemError("read", filePath, err)
}

// WrapFileWriteError wraps file writing errors with context
func (ew *ErrorWrapper) WrapFileWriteError(filePath string, err error) error {
	return errors.WrapFileSystemError("write", filePath, err)
}

// WrapFileCreateError wraps errors creating a new file
func (ew *ErrorWrapper) WrapFileCreateError(filePath string, err error) error {
	return errors.WrapFileSystemError("create", filePath, err).
		WithSuggestion("Choose a file name that does not exist yet")
}

// WrapDirectoryReadError wraps directory reading errors with context
func (ew *ErrorWrapper) WrapDirectoryReadError(dirPath string, err error) error {
	return errors.WrapFileSystemError("read directory", dirPath, err)
}

// WrapPathResolutionError wraps path resolution errors with context
func (ew *ErrorWrapper) WrapPathResolutionError(path string, err error) error {
	return errors.WrapFileSystemError("resolve path", path, err)
}

// WrapEditConflictError wraps queued edits that could not be applied
func (ew *ErrorWrapper) WrapEditConflictError(filePath string, err error) error {
	return errors.EditConflictError(filePath, err)
}
