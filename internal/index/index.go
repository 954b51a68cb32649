// internal/index/index.go
package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "svcs/internal/errors"

	"github.com/samber/lo"
)

// ErrEmpty is returned by List when nothing is tracked.
var ErrEmpty = errors.New("nothing tracked")

// Store is the ordered set of tracked paths, one per line in a text file.
// Entries are never removed.
type Store struct {
	path    string // index file
	workDir string // paths are resolved against this directory
}

func NewStore(path, workDir string) *Store {
	return &Store{
		path:    path,
		workDir: workDir,
	}
}

// Track appends path to the index. It returns added=false when an entry with
// the same basename is already tracked.
func (s *Store) Track(path string) (bool, error) {
	if path == "" {
		return false, apperrors.FileNotFound(path)
	}

	info, err := os.Stat(s.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, apperrors.FileNotFound(path)
		}
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return false, apperrors.FileNotFound(path)
	}

	paths, err := s.load()
	if err != nil {
		return false, err
	}

	base := filepath.Base(path)
	if lo.ContainsBy(paths, func(p string) bool { return filepath.Base(p) == base }) {
		return false, nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("opening index: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(path + "\n"); err != nil {
		return false, fmt.Errorf("writing index: %w", err)
	}
	return true, f.Close()
}

// List returns the tracked paths in insertion order.
func (s *Store) List() ([]string, error) {
	paths, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrEmpty
	}
	return paths, nil
}

// Resolve returns the location of a tracked path inside the working directory.
func (s *Store) Resolve(path string) string {
	return s.resolve(path)
}

func (s *Store) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.workDir, path)
}

func (s *Store) load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	return lo.Filter(strings.Split(string(data), "\n"), func(line string, _ int) bool {
		return line != ""
	}), nil
}
