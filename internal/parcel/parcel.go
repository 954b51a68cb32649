// internal/parcel/parcel.go
package parcel

import (
	"fmt"
	"os"
	"path/filepath"

	"svcs/internal/author"
	"svcs/internal/catalog"
	"svcs/internal/history"
	"svcs/internal/index"
	"svcs/internal/snapshot"

	"go.uber.org/zap"
)

// DefaultDirName is the repository marker directory inside the working directory.
const DefaultDirName = "vcs"

const (
	indexFile  = "index.txt"
	configFile = "config.txt"
	logFile    = "log.txt"
	commitsDir = "commits"
	catalogDir = "catalog"
)

// Parcel is one repository: a working directory plus the stores kept in its
// marker directory. Every operation goes through a Parcel, so tests can point
// one at a temporary directory.
type Parcel struct {
	Root      string // working directory
	Dir       string // marker directory
	Index     *index.Store
	History   *history.Log
	Snapshots *snapshot.Store
	Author    *author.Store
	Catalog   *catalog.Store // optional
	Logger    *zap.Logger
}

// Options configures New
type Options struct {
	DirName   string
	CacheSize int
	Catalog   *catalog.Store
	Logger    *zap.Logger
}

// Initialize creates the marker directory layout under root. It is safe to
// call on an existing repository.
func Initialize(root, dirName string) error {
	if dirName == "" {
		dirName = DefaultDirName
	}
	dir := filepath.Join(root, dirName)

	for _, d := range []string{dir, filepath.Join(dir, commitsDir)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	for _, name := range []string{indexFile, configFile, logFile} {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_RDONLY, 0644)
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		f.Close()
	}

	return nil
}

func New(root string, opts Options) (*Parcel, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path for root %s: %w", root, err)
	}

	if opts.DirName == "" {
		opts.DirName = DefaultDirName
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if err := Initialize(absPath, opts.DirName); err != nil {
		return nil, fmt.Errorf("initializing directories: %w", err)
	}

	dir := filepath.Join(absPath, opts.DirName)

	snapshots, err := snapshot.New(snapshot.Options{
		Root:      filepath.Join(dir, commitsDir),
		CacheSize: opts.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing snapshot store: %w", err)
	}

	return &Parcel{
		Root:      absPath,
		Dir:       dir,
		Index:     index.NewStore(filepath.Join(dir, indexFile), absPath),
		History:   history.NewLog(filepath.Join(dir, logFile)),
		Snapshots: snapshots,
		Author:    author.NewStore(filepath.Join(dir, configFile)),
		Catalog:   opts.Catalog,
		Logger:    opts.Logger,
	}, nil
}

// CatalogDir is where the commit catalog database lives.
func (p *Parcel) CatalogDir() string {
	return filepath.Join(p.Dir, catalogDir)
}

// OpenCatalog opens the on-disk catalog and attaches it to p.
func (p *Parcel) OpenCatalog() error {
	if p.Catalog != nil {
		return nil
	}
	c, err := catalog.Open(p.CatalogDir())
	if err != nil {
		return err
	}
	p.Catalog = c
	return nil
}

// Close releases the catalog if it is open.
func (p *Parcel) Close() error {
	if p == nil || p.Catalog == nil {
		return nil
	}
	if err := p.Catalog.Close(); err != nil {
		return fmt.Errorf("closing catalog: %w", err)
	}
	p.Catalog = nil
	return nil
}
