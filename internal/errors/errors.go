package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeValidation      ErrorType = "VALIDATION"
	ErrorTypeInternal        ErrorType = "INTERNAL"
	ErrorTypeMissingArgument ErrorType = "MISSING_ARGUMENT"
	ErrorTypeNothingToCommit ErrorType = "NOTHING_TO_COMMIT"
	ErrorTypeCommitNotFound  ErrorType = "COMMIT_NOT_FOUND"
	ErrorTypeUnknownCommand  ErrorType = "UNKNOWN_COMMAND"
)

// Error is a reportable outcome. Message is the sentence shown to the user.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details any       `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Message: message,
		Code:    http.StatusNotFound,
	}
}

// FileNotFound reports a path that cannot be tracked.
func FileNotFound(path string) *Error {
	return NotFound(fmt.Sprintf("Can't find '%s'.", path))
}

func ValidationError(message string, details any) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    http.StatusBadRequest,
		Details: details,
	}
}

func Internal(message string) *Error {
	return &Error{
		Type:    ErrorTypeInternal,
		Message: message,
		Code:    http.StatusInternalServerError,
	}
}

func MissingArgument(message string) *Error {
	return &Error{
		Type:    ErrorTypeMissingArgument,
		Message: message,
		Code:    http.StatusBadRequest,
	}
}

// NothingToCommit covers an empty index and an identity that already has a snapshot.
func NothingToCommit() *Error {
	return &Error{
		Type:    ErrorTypeNothingToCommit,
		Message: "Nothing to commit.",
		Code:    http.StatusConflict,
	}
}

func CommitNotFound(id string) *Error {
	return &Error{
		Type:    ErrorTypeCommitNotFound,
		Message: "Commit does not exist.",
		Code:    http.StatusNotFound,
		Details: id,
	}
}

func UnknownCommand(token string) *Error {
	return &Error{
		Type:    ErrorTypeUnknownCommand,
		Message: fmt.Sprintf("'%s' is not a SVCS command.", token),
		Code:    http.StatusBadRequest,
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err's chain holds an *Error of type t.
func IsType(err error, t ErrorType) bool {
	e, ok := As(err)
	return ok && e.Type == t
}
