// Package author stores the display name recorded on commits.
package author

import (
	"fmt"
	"os"
)

// DefaultName is used on commits while no name has been configured.
const DefaultName = "name"

// Store keeps the name as the whole content of a single file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the configured name and whether one is set.
func (s *Store) Get() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading config: %w", err)
	}
	return string(data), len(data) > 0, nil
}

// Name returns the configured name, or DefaultName.
func (s *Store) Name() (string, error) {
	name, ok, err := s.Get()
	if err != nil {
		return "", err
	}
	if !ok {
		return DefaultName, nil
	}
	return name, nil
}

func (s *Store) Set(name string) error {
	if err := os.WriteFile(s.path, []byte(name), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
