package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

func TestStruct_Valid(t *testing.T) {
	note := model.Note{ID: "n1", Category: model.CategoryIdea}

	assert.NoError(t, Struct(note, "n1.md"))
}

func TestStruct_MissingField(t *testing.T) {
	err := Struct(model.Note{}, "empty.md")
	require.Error(t, err)

	var userErr errors.UserError
	require.True(t, stderrors.As(err, &userErr))
	assert.Equal(t, errors.ErrCodeMissingField, userErr.Code)
	assert.Equal(t, "empty.md", userErr.File)
	assert.EqualError(t, userErr.Err, "required field 'id' is missing")
}

func TestStruct_InvalidValue(t *testing.T) {
	err := Struct(model.Note{ID: "n1", Category: "poetry"}, "n1.md")

	var userErr errors.UserError
	require.True(t, stderrors.As(err, &userErr))
	assert.Equal(t, errors.ErrCodeInvalidValue, userErr.Code)
	assert.Contains(t, userErr.Err.Error(), "invalid value for 'category': must be one of: general idea")
}

func TestValidateMarkdownExtension(t *testing.T) {
	for _, ok := range []string{"a.md", "b.MARKDOWN", "c.mdown", "d.mkd"} {
		assert.NoError(t, ValidateMarkdownExtension(ok), ok)
	}
	for _, bad := range []string{"a.txt", "b", "c.md.bak"} {
		assert.Error(t, ValidateMarkdownExtension(bad), bad)
	}
}

func TestValidateYAMLExtension(t *testing.T) {
	assert.NoError(t, ValidateYAMLExtension("mindmeld.yaml"))
	assert.NoError(t, ValidateYAMLExtension("mindmeld.YML"))
	assert.Error(t, ValidateYAMLExtension("mindmeld.json"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Plain title", "Plain title"},
		{"a/b:c?", "a_b_c_"},
		{"  ..dots.. ", "dots"},
		{"", "untitled"},
		{"...", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}
