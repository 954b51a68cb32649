package validation

import (
	"strings"

	"svcs/internal/errors"
)

type Validator interface {
	Validate() error
}

// Identity checks that id is a lowercase hexadecimal commit identity.
func Identity(id string) error {
	if id == "" {
		return errors.ValidationError("commit id is required", nil)
	}
	for _, r := range id {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return errors.ValidationError("invalid commit id", id)
		}
	}
	return nil
}

// FileName checks that name addresses a single file inside a snapshot.
func FileName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.ValidationError("invalid file name", name)
	}
	return nil
}
