package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/cache"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/store"
)

// Options adjusts which routes a Resource mounts and who may read.
type Options struct {
	// Private requires a session for reads too.
	Private bool
	// ReadOnly omits PATCH.
	ReadOnly bool
	// NoCreate omits POST; records are created by a bespoke route.
	NoCreate bool
	// ContentField names the payload field holding a block sequence so
	// decoding errors point at the offending block.
	ContentField string
}

// Resource serves the CRUD routes of one entity kind.
type Resource[R any, C models.Creator[R], U models.Patcher[R]] struct {
	kind  string
	store store.Store[R, C, U]
	cache *cache.ListCache
	opts  Options
}

// NewResource creates the handler set for kind. lc may be nil.
func NewResource[R any, C models.Creator[R], U models.Patcher[R]](kind string, s store.Store[R, C, U], lc *cache.ListCache, opts Options) *Resource[R, C, U] {
	return &Resource[R, C, U]{kind: kind, store: s, cache: lc, opts: opts}
}

// Kind returns the URL segment and cache key of the resource.
func (h *Resource[R, C, U]) Kind() string {
	return h.kind
}

// Routes mounts the generic routes on r, which is expected to be the
// /api/{kind} subrouter. Mutations always require a session.
func (h *Resource[R, C, U]) Routes(r chi.Router) {
	read := r
	if h.opts.Private {
		read = r.With(middleware.RequireAuth)
	}
	read.Get("/", h.List)
	read.Get("/{id}", h.Get)

	write := r.With(middleware.RequireAuth)
	if !h.opts.NoCreate {
		write.Post("/", h.Create)
	}
	if !h.opts.ReadOnly {
		write.Patch("/{id}", h.Update)
	}
	write.Delete("/{id}", h.Delete)
}

// List returns every record in the kind's default order. Public lists are
// served from the cache when warm.
func (h *Resource[R, C, U]) List(w http.ResponseWriter, r *http.Request) {
	cacheable := !h.opts.Private
	var version int64
	if cacheable {
		if body, ok := h.cache.Get(r.Context(), h.kind); ok {
			writeRaw(w, http.StatusOK, body)
			return
		}
		version = h.cache.Version(r.Context(), h.kind)
	}

	items, err := h.store.List(r.Context())
	if err != nil {
		writeFailure(w, r, "list "+h.kind, err)
		return
	}
	if items == nil {
		items = []R{}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(items); err != nil {
		writeFailure(w, r, "encode "+h.kind, err)
		return
	}
	if cacheable {
		h.cache.Fill(r.Context(), h.kind, version, buf.Bytes())
	}
	writeRaw(w, http.StatusOK, buf.Bytes())
}

func (h *Resource[R, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, "get "+h.kind, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, h.kind+" not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Create validates the payload before touching the store.
func (h *Resource[R, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	var in C
	if err := decodeJSON(w, r, &in, h.opts.ContentField); err != nil {
		writeFailure(w, r, "decode "+h.kind, err)
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, "validate "+h.kind, err)
		return
	}

	rec, err := h.store.Create(r.Context(), in)
	if err != nil {
		writeFailure(w, r, "create "+h.kind, err)
		return
	}
	h.Invalidate(r)
	writeJSON(w, http.StatusCreated, rec)
}

// Update applies only the fields present in the payload.
func (h *Resource[R, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch U
	if err := decodeJSON(w, r, &patch, h.opts.ContentField); err != nil {
		writeFailure(w, r, "decode "+h.kind, err)
		return
	}
	if err := patch.Validate(); err != nil {
		writeFailure(w, r, "validate "+h.kind, err)
		return
	}

	rec, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		writeFailure(w, r, "update "+h.kind, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, h.kind+" not found")
		return
	}
	h.Invalidate(r)
	writeJSON(w, http.StatusOK, rec)
}

func (h *Resource[R, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	found, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeFailure(w, r, "delete "+h.kind, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, h.kind+" not found")
		return
	}
	h.Invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// Invalidate drops the cached list of the kind.
func (h *Resource[R, C, U]) Invalidate(r *http.Request) {
	h.cache.Invalidate(r.Context(), h.kind)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
