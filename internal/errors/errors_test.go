package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "error with cause",
			err:      NewParsingError("bad date", errors.New("cannot parse")),
			expected: "[PARSING] bad date: cannot parse",
		},
		{
			name:     "error without cause",
			err:      NewIntegrityError("duplicate primary identity", nil),
			expected: "[INTEGRITY] duplicate primary identity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewStorageError("write failed", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(fmt.Errorf("stage: %w", err), &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewValidationError("dropped entity keys", nil).
		WithContext("dropped", 42).
		WithContext("source", "links.csv")

	assert.Equal(t, 42, err.Context["dropped"])
	assert.Equal(t, "links.csv", err.Context["source"])
}

func TestIsType(t *testing.T) {
	err := NewIntegrityError("entity has two primaries", nil)
	wrapped := fmt.Errorf("select primary: %w", err)

	assert.True(t, IsType(wrapped, ErrTypeIntegrity))
	assert.False(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeIntegrity))
}
