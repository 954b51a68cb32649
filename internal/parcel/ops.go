package parcel

import (
	"errors"
	"path/filepath"

	"svcs/internal/history"
	"svcs/internal/index"

	"go.uber.org/zap"
)

// Track adds path to the index and returns its basename. added is false when
// a file with the same basename is already tracked.
func (p *Parcel) Track(path string) (name string, added bool, err error) {
	added, err = p.Index.Track(path)
	if err != nil {
		return "", false, err
	}
	if added {
		p.Logger.Debug("tracked", zap.String("path", path))
	}
	return filepath.Base(path), added, nil
}

// Tracked lists tracked paths; it is empty when nothing is tracked.
func (p *Parcel) Tracked() ([]string, error) {
	paths, err := p.Index.List()
	if errors.Is(err, index.ErrEmpty) {
		return nil, nil
	}
	return paths, err
}

// Log returns the history text, or "" when there are no commits.
func (p *Parcel) Log() (string, error) {
	text, err := p.History.ReadAll()
	if errors.Is(err, history.ErrEmpty) {
		return "", nil
	}
	return text, err
}

// Username returns the configured author name and whether one is set.
func (p *Parcel) Username() (string, bool, error) {
	return p.Author.Get()
}

func (p *Parcel) SetUsername(name string) error {
	return p.Author.Set(name)
}
