package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
		typ  ErrorType
	}{
		{"file not found", FileNotFound("a.txt"), "Can't find 'a.txt'.", ErrorTypeNotFound},
		{"nothing to commit", NothingToCommit(), "Nothing to commit.", ErrorTypeNothingToCommit},
		{"commit not found", CommitNotFound("abc"), "Commit does not exist.", ErrorTypeCommitNotFound},
		{"unknown command", UnknownCommand("push"), "'push' is not a SVCS command.", ErrorTypeUnknownCommand},
		{"missing argument", MissingArgument("Message was not passed."), "Message was not passed.", ErrorTypeMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("committing: %w", NothingToCommit())

	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, e.Code)
	assert.True(t, IsType(wrapped, ErrorTypeNothingToCommit))
	assert.False(t, IsType(wrapped, ErrorTypeNotFound))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}
