package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "/src/main.ts", SourceLocation{File: "/src/main.ts"}.String())
	assert.Equal(t, "/src/main.ts:3", SourceLocation{File: "/src/main.ts", Line: 3}.String())
	assert.Equal(t, "/src/main.ts:3:7", SourceLocation{File: "/src/main.ts", Line: 3, Column: 7}.String())
}

func TestBaseError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := WrapFileSystemError("write", "/src/app/app.module.ts", cause)

	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "/src/app/app.module.ts: failed to write file '/src/app/app.module.ts': permission denied", err.Error())
	assert.Equal(t, "write", err.Context()["operation"])
	assert.ErrorIs(t, err, cause)

	var merr MigrationError
	require.ErrorAs(t, fmt.Errorf("commit: %w", err), &merr)
	assert.Equal(t, "/src/app/app.module.ts", merr.Location().File)
}

func TestBaseError_Builders(t *testing.T) {
	err := Newf(SyntaxErrorCode, "unexpected %s", "token").
		WithLocation(SourceLocation{File: "/src/a.ts", Line: 2}).
		WithSuggestion("Fix the syntax error").
		WithCause(stderrors.New("parse"))

	assert.Equal(t, "/src/a.ts:2: unexpected token: parse", err.Error())
	assert.Equal(t, []string{"Fix the syntax error"}, err.Suggestions())
	assert.Empty(t, New(UnknownErrorCode, "x").Context())
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "WorkspaceError", WorkspaceErrorCode.String())
	assert.Equal(t, "ManifestError", ManifestErrorCode.String())
	assert.Equal(t, "EditConflictError", EditConflictErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}

func TestWrappers(t *testing.T) {
	cause := stderrors.New("boom")

	assert.Equal(t, WorkspaceErrorCode, WrapWorkspaceError("/angular.json", cause).ErrorCode())
	assert.NotEmpty(t, WrapWorkspaceError("/angular.json", cause).Suggestions())
	assert.Equal(t, ManifestErrorCode, WrapManifestError("/package.json", cause).ErrorCode())
	assert.Equal(t, EditConflictErrorCode, EditConflictError("/src/a.ts", cause).ErrorCode())
	assert.Equal(t, SyntaxErrorCode, WrapParseError("/src/a.ts", cause).ErrorCode())

	cfg := WrapConfigurationError("ngmigrate.toml", "parse", cause)
	assert.Equal(t, ConfigurationErrorCode, cfg.ErrorCode())
	assert.Contains(t, cfg.Error(), "failed to parse configuration 'ngmigrate.toml'")
	assert.Contains(t, ConfigurationError("ngmigrate.toml", "unknown key").Error(), "unknown key")
}

func TestMultipleErrors(t *testing.T) {
	errs := &MultipleErrors{}
	assert.NoError(t, errs.ErrorOrNil())
	assert.Equal(t, "no errors", errs.Error())

	first := EditConflictError("/src/a.ts", stderrors.New("overlap"))
	errs.Add(first)
	assert.Equal(t, first.Error(), errs.Error())

	errs.Add(WrapManifestError("/package.json", stderrors.New("eof")))
	require.Error(t, errs.ErrorOrNil())
	assert.Contains(t, errs.Error(), "multiple errors (2 total)")
	assert.True(t, errs.HasCode(ManifestErrorCode))
	assert.False(t, errs.HasCode(WorkspaceErrorCode))

	var target *BaseError
	require.ErrorAs(t, errs, &target)
	assert.Equal(t, EditConflictErrorCode, target.Code)
}
