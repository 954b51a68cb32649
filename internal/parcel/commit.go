// internal/parcel/commit.go
package parcel

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"svcs/internal/catalog"
	apperrors "svcs/internal/errors"
	"svcs/internal/identity"
	"svcs/internal/index"
	"svcs/internal/snapshot"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ModTimeLayout renders tracked file modification times in descriptors.
const ModTimeLayout = "2006-01-02_15:04:05"

// TrackedFile is a tracked path read at commit time.
type TrackedFile struct {
	Path    string
	ModTime time.Time
	Data    []byte
	Mode    os.FileMode
}

// Describe builds the content descriptor an identity is computed from:
// author, "_content_", then modification time and content of each file in
// index order. Spaces are replaced with underscores across the whole string,
// author and file content included.
func Describe(author string, files []TrackedFile) string {
	var b strings.Builder
	b.WriteString(author)
	b.WriteString("_")
	b.WriteString("content_")
	for _, f := range files {
		b.WriteString(f.ModTime.Local().Format(ModTimeLayout))
		b.Write(f.Data)
	}
	return strings.ReplaceAll(b.String(), " ", "_")
}

// Commit snapshots the tracked files and records the commit in the history.
// It returns the new identity.
func (p *Parcel) Commit(message string) (string, error) {
	if message == "" {
		return "", apperrors.MissingArgument("Message was not passed.")
	}

	paths, err := p.Index.List()
	if errors.Is(err, index.ErrEmpty) {
		return "", apperrors.NothingToCommit()
	}
	if err != nil {
		return "", err
	}

	name, err := p.Author.Name()
	if err != nil {
		return "", err
	}

	files, err := p.readTracked(paths)
	if err != nil {
		return "", err
	}

	id := identity.Hex(Describe(name, files))

	exists, err := p.Snapshots.Exists(id)
	if err != nil {
		return "", err
	}
	if exists {
		p.Logger.Debug("identity already committed", zap.String("id", id))
		return "", apperrors.NothingToCommit()
	}

	sources := lo.Map(files, func(f TrackedFile, _ int) snapshot.Source {
		return snapshot.Source{Path: f.Path, Data: f.Data, Mode: f.Mode}
	})
	written, err := p.Snapshots.Create(id, sources)
	if errors.Is(err, snapshot.ErrExists) {
		return "", apperrors.NothingToCommit()
	}
	if err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	if err := p.History.Record(id, name, message); err != nil {
		// The snapshot stays published, so the same state now reads as
		// already committed even though the log never mentions it.
		p.Logger.Error("snapshot recorded without log entry",
			zap.String("id", id),
			zap.String("dir", p.Snapshots.Dir(id)),
			zap.Error(err))
		return "", fmt.Errorf("recording history: %w", err)
	}

	if p.Catalog != nil {
		record := &catalog.Commit{
			ID:      id,
			Author:  name,
			Message: message,
			Files:   written,
		}
		if err := p.Catalog.Create(record); err != nil {
			p.Logger.Warn("failed to catalog commit", zap.String("id", id), zap.Error(err))
		}
	}

	size := lo.SumBy(written, func(f snapshot.File) int64 { return f.Size })
	p.Logger.Info("committed",
		zap.String("id", id),
		zap.String("author", name),
		zap.Int("files", len(written)),
		zap.String("size", humanize.Bytes(uint64(size))))

	return id, nil
}

func (p *Parcel) readTracked(paths []string) ([]TrackedFile, error) {
	files := make([]TrackedFile, 0, len(paths))
	for _, path := range paths {
		abs := p.Index.Resolve(path)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("reading tracked file %s: %w", path, err)
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("reading tracked file %s: %w", path, err)
		}

		files = append(files, TrackedFile{
			Path:    path,
			ModTime: info.ModTime(),
			Data:    data,
			Mode:    info.Mode(),
		})
	}
	return files, nil
}
