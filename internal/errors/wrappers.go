package errors

import "fmt"

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Wrap(FileSystemErrorCode, fmt.Sprintf("failed to %s file '%s'", operation, path), cause).
		WithLocation(SourceLocation{File: path}).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapParseError wraps a failure to parse a source file
func WrapParseError(path string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, "failed to parse source file", cause).
		WithLocation(SourceLocation{File: path})
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// WrapWorkspaceError wraps failures to load the workspace descriptor
func WrapWorkspaceError(path string, cause error) *BaseError {
	return Wrap(WorkspaceErrorCode, "failed to load workspace", cause).
		WithLocation(SourceLocation{File: path}).
		WithSuggestion("Run the migration from an Angular workspace containing angular.json, or pass the workspace directory as an argument")
}

// WrapManifestError wraps failures to read or update the package manifest
func WrapManifestError(path string, cause error) *BaseError {
	return Wrap(ManifestErrorCode, "failed to update package manifest", cause).
		WithLocation(SourceLocation{File: path}).
		WithSuggestion("Remove the \"hammerjs\" dependency manually")
}

// EditConflictError reports queued edits of one file that overlap
func EditConflictError(path string, cause error) *BaseError {
	return Wrap(EditConflictErrorCode, "conflicting edits", cause).
		WithLocation(SourceLocation{File: path}).
		WithSuggestion("The file was left unchanged; apply the migration for this file manually")
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	return New(ConfigurationErrorCode, fmt.Sprintf("configuration error in '%s': %s", configType, message)).
		WithContext("config_type", configType)
}
