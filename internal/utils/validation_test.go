package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	assert.Equal(t, "validation error for field 'report': cannot be blank",
		ValidationError{Field: "report", Message: "cannot be blank"}.Error())
	assert.Equal(t, "validation error: invalid format", ValidationError{Message: "invalid format"}.Error())
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"not blank", NotBlank("f")("app"), false},
		{"blank", NotBlank("f")("  "), true},
		{"suffix", HasSuffix("f", ".json")("report.json"), false},
		{"missing suffix", HasSuffix("f", ".json")("report.txt"), true},
		{"one of", IsOneOf("f", "a", "b")("b"), false},
		{"not one of", IsOneOf("f", "a", "b")("c"), true},
		{"at least", AtLeast("f", 0)(0), false},
		{"below", AtLeast("f", 0)(-1), true},
		{"custom", Custom("f", "must be even", func(v int) bool { return v%2 == 0 })(3), true},
		{"optional zero", Optional(HasSuffix("f", ".json"))(""), false},
		{"optional set", Optional(HasSuffix("f", ".json"))("x"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				assert.Error(t, tt.err)
			} else {
				assert.NoError(t, tt.err)
			}
		})
	}
}

func TestValidateEach(t *testing.T) {
	v := ValidateEach("projects", NotBlank("project"))
	assert.NoError(t, v([]string{"app", "lib"}))

	err := v([]string{"app", ""})
	require.Error(t, err)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "projects[1]", verr.Field)
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotBlank("report")).Add(HasSuffix("report", ".json"))
	assert.NoError(t, chain.Validate("out/report.json"))

	err := chain.Validate("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be blank")

	err = chain.Validate("report.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".json")
}
