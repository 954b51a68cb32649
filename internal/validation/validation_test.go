package validation

import (
	"testing"

	"svcs/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"61", false},
		{"0123456789abcdef", false},
		{"", true},
		{"ABC", true},
		{"..", true},
		{"../etc", true},
		{"-1a", true},
		{"xyz", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := Identity(tt.id)
			if tt.wantErr {
				assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	assert.NoError(t, FileName("a.txt"))
	assert.NoError(t, FileName(".hidden"))

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		assert.Error(t, FileName(name), name)
	}
}
