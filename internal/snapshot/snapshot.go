// internal/snapshot/snapshot.go
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"
)

var (
	ErrNotFound = errors.New("snapshot not found")
	ErrExists   = errors.New("snapshot already exists")
)

const stagingPrefix = ".staging-"

// Source is a tracked file as read at commit time.
type Source struct {
	Path string
	Data []byte
	Mode fs.FileMode
}

// File describes one file written into a snapshot.
type File struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// Store keeps one flat directory per identity under root. Snapshots are
// write-once: Create refuses an identity that already has a directory.
//
// Files are stored by basename only, so two sources with the same basename
// collide and the later one wins.
type Store struct {
	root  string
	cache *lru.Cache[string, []byte]
}

// Options configures Store behavior
type Options struct {
	Root      string // Directory holding one subdirectory per snapshot
	CacheSize int    // Number of file contents kept in memory
}

func New(opts Options) (*Store, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}

	if err := os.MkdirAll(opts.Root, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	cache, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	return &Store{
		root:  opts.Root,
		cache: cache,
	}, nil
}

// Dir returns the directory that holds snapshot id.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.root, id)
}

// Exists reports whether a snapshot directory exists for id.
func (s *Store) Exists(id string) (bool, error) {
	if !isPlainName(id) {
		return false, nil
	}
	info, err := os.Stat(s.Dir(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking snapshot %s: %w", id, err)
	}
	return info.IsDir(), nil
}

// Create writes sources into a new snapshot. The files are staged in a
// sibling directory and published with a single rename.
func (s *Store) Create(id string, sources []Source) ([]File, error) {
	if !isPlainName(id) {
		return nil, fmt.Errorf("invalid snapshot id %q", id)
	}

	exists, err := s.Exists(id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrExists
	}

	staging := filepath.Join(s.root, stagingPrefix+uuid.NewString())
	if err := os.Mkdir(staging, 0755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	written := make(map[string]File, len(sources))
	for _, src := range sources {
		name := filepath.Base(src.Path)
		mode := src.Mode.Perm()
		if mode == 0 {
			mode = 0644
		}
		if err := os.WriteFile(filepath.Join(staging, name), src.Data, mode); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		written[name] = File{
			Name:     name,
			Size:     int64(len(src.Data)),
			Checksum: Checksum(src.Data),
		}
	}

	if err := os.Rename(staging, s.Dir(id)); err != nil {
		if exists, _ := s.Exists(id); exists {
			return nil, ErrExists
		}
		return nil, fmt.Errorf("publishing snapshot %s: %w", id, err)
	}

	files := make([]File, 0, len(written))
	for _, f := range written {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Files lists the file names inside snapshot id.
func (s *Store) Files(id string) ([]string, error) {
	entries, err := s.entries(id)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Read returns the content of one file in snapshot id.
func (s *Store) Read(id, name string) ([]byte, error) {
	if !isPlainName(id) || !isPlainName(name) {
		return nil, ErrNotFound
	}

	key := id + "/" + name
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(id), name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s/%s: %w", id, name, err)
	}

	s.cache.Add(key, data)
	return data, nil
}

// Restore copies every file of snapshot id into dst, overwriting files with
// the same name. Files already copied stay in place if a later copy fails.
func (s *Store) Restore(id, dst string) ([]string, error) {
	entries, err := s.entries(id)
	if err != nil {
		return nil, err
	}

	var restored []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			return restored, fmt.Errorf("inspecting %s: %w", e.Name(), err)
		}
		data, err := s.Read(id, e.Name())
		if err != nil {
			return restored, err
		}

		target := filepath.Join(dst, e.Name())
		// Replace rather than write through, so read-only targets are overwritten too.
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return restored, fmt.Errorf("replacing %s: %w", e.Name(), err)
		}
		if err := os.WriteFile(target, data, info.Mode().Perm()); err != nil {
			return restored, fmt.Errorf("restoring %s: %w", e.Name(), err)
		}
		restored = append(restored, e.Name())
	}
	return restored, nil
}

// List returns the identities of all published snapshots.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), stagingPrefix) {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

func (s *Store) entries(id string) ([]os.DirEntry, error) {
	if !isPlainName(id) {
		return nil, ErrNotFound
	}
	entries, err := os.ReadDir(s.Dir(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", id, err)
	}
	return entries, nil
}

// Checksum fingerprints file content for catalog records.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// isPlainName rejects anything that could address a path outside one directory level.
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, stagingPrefix)
}
