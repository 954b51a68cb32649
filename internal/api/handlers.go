// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"svcs/internal/catalog"
	apperrors "svcs/internal/errors"
	"svcs/internal/history"
	"svcs/internal/logging"
	"svcs/internal/parcel"
	"svcs/internal/snapshot"
	"svcs/internal/validation"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Handler serves a read-only view of one repository.
//
// History and index listings are cached until Invalidate is called for the
// file they come from.
type Handler struct {
	parcel  *parcel.Parcel
	catalog catalog.Reader
	logger  *logging.Logger

	mu    sync.Mutex
	gens  map[string]uint64
	slots map[string]slot

	// afterFill runs between reading a file and caching the result.
	afterFill func(name string)
}

// slot is a cached value and the generation of its file when it was read.
type slot struct {
	value any
	gen   uint64
}

func NewHandler(p *parcel.Parcel, c catalog.Reader, logger *logging.Logger) *Handler {
	return &Handler{
		parcel:  p,
		catalog: c,
		logger:  logger,
		gens:    make(map[string]uint64),
		slots:   make(map[string]slot),
	}
}

// Routes registers the handler's endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /api/log", h.Log)
	mux.HandleFunc("GET /api/index", h.Index)
	mux.HandleFunc("GET /api/commits", h.Commits)
	mux.HandleFunc("GET /api/commits/{id}", h.Commit)
	mux.HandleFunc("GET /api/commits/{id}/files/{name}", h.File)
}

// Invalidate drops cached data derived from the named repository file.
func (h *Handler) Invalidate(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gens[name]++
	delete(h.slots, name)
}

// load returns the cached value for name or reads it with fill. A value read
// while name was invalidated is returned but not cached.
func load[T any](h *Handler, name string, fill func() (T, error)) (T, error) {
	h.mu.Lock()
	gen := h.gens[name]
	cached, ok := h.slots[name]
	h.mu.Unlock()

	if ok && cached.gen == gen {
		return cached.value.(T), nil
	}

	value, err := fill()
	if err != nil {
		return value, err
	}
	if h.afterFill != nil {
		h.afterFill(name)
	}

	h.mu.Lock()
	if h.gens[name] == gen {
		h.slots[name] = slot{value: value, gen: gen}
	}
	h.mu.Unlock()
	return value, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) Log(w http.ResponseWriter, r *http.Request) {
	entries, err := h.historyEntries()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	tracked, err := load(h, "index.txt", func() ([]string, error) {
		tracked, err := h.parcel.Tracked()
		if tracked == nil {
			tracked = []string{}
		}
		return tracked, err
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"tracked": tracked})
}

// Commits lists catalog records, newest first.
func (h *Handler) Commits(w http.ResponseWriter, r *http.Request) {
	commits, err := h.catalog.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if commits == nil {
		commits = []*catalog.Commit{}
	}
	writeJSON(w, http.StatusOK, commits)
}

func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := validation.Identity(id); err != nil {
		h.fail(w, r, apperrors.CommitNotFound(id))
		return
	}

	record, err := h.catalog.Get(id)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			h.logger.WithRequestID(r.Context()).Debug("catalog unavailable, reading snapshot",
				zap.String("id", id), zap.Error(err))
		}
		record, err = h.fromSnapshot(id)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	id, name := r.PathValue("id"), r.PathValue("name")
	if err := validation.Identity(id); err != nil {
		h.fail(w, r, apperrors.CommitNotFound(id))
		return
	}
	if err := validation.FileName(name); err != nil {
		h.fail(w, r, err)
		return
	}

	data, err := h.parcel.Snapshots.Read(id, name)
	if errors.Is(err, snapshot.ErrNotFound) {
		h.fail(w, r, apperrors.NotFound("file not found in commit"))
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// fromSnapshot assembles a record from the snapshot directory and the log
// when the catalog has none.
func (h *Handler) fromSnapshot(id string) (*catalog.Commit, error) {
	names, err := h.parcel.Snapshots.Files(id)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil, apperrors.CommitNotFound(id)
	}
	if err != nil {
		return nil, err
	}

	record := &catalog.Commit{ID: id, Files: []snapshot.File{}}
	for _, name := range names {
		data, err := h.parcel.Snapshots.Read(id, name)
		if err != nil {
			return nil, err
		}
		record.Files = append(record.Files, snapshot.File{
			Name:     name,
			Size:     int64(len(data)),
			Checksum: snapshot.Checksum(data),
		})
	}

	entries, err := h.historyEntries()
	if err != nil {
		return nil, err
	}
	if entry, ok := lo.Find(entries, func(e history.Entry) bool { return e.ID == id }); ok {
		record.Author, record.Message = entry.Author, entry.Message
	}
	return record, nil
}

func (h *Handler) historyEntries() ([]history.Entry, error) {
	return load(h, "log.txt", func() ([]history.Entry, error) {
		entries, err := h.parcel.History.Entries()
		if entries == nil {
			entries = []history.Entry{}
		}
		return entries, err
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperrors.As(err)
	if !ok {
		h.logger.WithRequestID(r.Context()).Error("request failed", zap.Error(err))
		e = apperrors.Internal("internal error")
	}
	writeJSON(w, e.Code, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
