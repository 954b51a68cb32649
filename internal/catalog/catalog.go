// internal/catalog/catalog.go
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"svcs/internal/snapshot"
	"svcs/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

var ErrNotFound = errors.New("commit not found in catalog")

// Commit is the catalog record written next to each snapshot.
type Commit struct {
	ID        string          `json:"id"`
	Author    string          `json:"author"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"created_at"`
	Files     []snapshot.File `json:"files"`
}

// Reader is the read side of the catalog.
type Reader interface {
	Get(id string) (*Commit, error)
	List() ([]*Commit, error)
}

type Store struct {
	store *storage.BadgerStore
	db    *badger.DB
	owned bool
}

// commitEntity wraps Commit to implement storage.Entity
type commitEntity struct {
	*Commit
}

func (c *commitEntity) GetID() string {
	return c.ID
}

// New wraps an open database. The caller keeps ownership of db.
func New(db *badger.DB) *Store {
	return &Store{
		store: storage.NewBadgerStore(db, "commit"),
		db:    db,
	}
}

// Open opens (or creates) the catalog database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}
	return open(badger.DefaultOptions(dir))
}

// OpenReadOnly opens an existing catalog without taking the writer lock.
func OpenReadOnly(dir string) (*Store, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return open(badger.DefaultOptions(dir).WithReadOnly(true))
}

func open(opts badger.Options) (*Store, error) {
	opts.Logger = nil // Disable logging noise

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := New(db)
	s.owned = true
	return s, nil
}

// Close closes the database when the store opened it.
func (s *Store) Close() error {
	if s == nil || !s.owned {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Create(c *Commit) error {
	if c.ID == "" {
		return fmt.Errorf("commit id is required")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return s.store.Create(&commitEntity{Commit: c})
}

func (s *Store) Get(id string) (*Commit, error) {
	entity := commitEntity{Commit: &Commit{}}
	if err := s.store.Get(id, &entity); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("getting commit: %w", err)
	}
	return entity.Commit, nil
}

// List returns all records, newest first.
func (s *Store) List() ([]*Commit, error) {
	var commits []*Commit
	if err := s.store.List(&commits); err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].CreatedAt.After(commits[j].CreatedAt)
	})
	return commits, nil
}

// OnDemand opens the catalog read-only for each call, so a long running
// reader never holds the database while a commit needs it.
type OnDemand struct {
	Dir string
}

func (o OnDemand) Get(id string) (*Commit, error) {
	var c *Commit
	err := o.with(func(s *Store) error {
		var err error
		c, err = s.Get(id)
		return err
	})
	return c, err
}

func (o OnDemand) List() ([]*Commit, error) {
	var commits []*Commit
	err := o.with(func(s *Store) error {
		var err error
		commits, err = s.List()
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return commits, err
}

func (o OnDemand) with(fn func(*Store) error) error {
	if _, err := os.Stat(o.Dir); os.IsNotExist(err) {
		return ErrNotFound
	}

	s, err := OpenReadOnly(o.Dir)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}
