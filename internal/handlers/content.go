// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/blocks"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/render"
	"portfolio/internal/store"
)

// Content adds search, rendering and block editing to a contentful kind.
// Every editor call loads the record, applies one operation and stores the
// whole sequence back; concurrent edits are last write wins.
type Content[R models.Contentful, C models.Creator[R], U models.Patcher[R]] struct {
	*Resource[R, C, U]
	store store.ContentStore[R, C, U]
	// withContent builds the patch that replaces only the block sequence.
	withContent func(blocks.Sequence) U
}

// NewContent wraps res with the block routes. withContent must return a
// patch that sets only the content field.
func NewContent[R models.Contentful, C models.Creator[R], U models.Patcher[R]](res *Resource[R, C, U], s store.ContentStore[R, C, U], withContent func(blocks.Sequence) U) *Content[R, C, U] {
	return &Content[R, C, U]{Resource: res, store: s, withContent: withContent}
}

// Routes mounts the generic routes plus search, HTML and the editor.
func (h *Content[R, C, U]) Routes(r chi.Router) {
	r.Get("/search", h.Search)
	h.Resource.Routes(r)
	r.Get("/{id}/html", h.HTML)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{id}/blocks", h.AppendBlock)
		r.Patch("/{id}/blocks/{index}", h.UpdateBlock)
		r.Delete("/{id}/blocks/{index}", h.RemoveBlock)
		r.Post("/{id}/blocks/{index}/move", h.MoveBlock)
	})
}

// Search filters by a case-insensitive substring of title, text and tags.
// An empty query returns everything.
func (h *Content[R, C, U]) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeFailure(w, r, "search "+h.kind, err)
		return
	}
	if items == nil {
		items = []R{}
	}
	writeJSON(w, http.StatusOK, items)
}

type renderedContent struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// HTML renders the record's blocks to a sanitized fragment.
func (h *Content[R, C, U]) HTML(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}
	out, err := render.Blocks((*rec).Blocks())
	if err != nil {
		writeFailure(w, r, "render "+h.kind, err)
		return
	}
	writeJSON(w, http.StatusOK, renderedContent{ID: (*rec).Key(), Title: (*rec).Heading(), HTML: string(out)})
}

type appendRequest struct {
	Type blocks.Type `json:"type"`
}

func (h *Content[R, C, U]) AppendBlock(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := decodeJSON(w, r, &req, ""); err != nil {
		writeFailure(w, r, "decode block", err)
		return
	}
	h.edit(w, r, func(e *blocks.Editor) error { return e.Append(req.Type) })
}

func (h *Content[R, C, U]) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var fields blocks.Fields
	if err := decodeJSON(w, r, &fields, ""); err != nil {
		writeFailure(w, r, "decode block", err)
		return
	}
	h.edit(w, r, func(e *blocks.Editor) error { return e.Update(index, fields) })
}

func (h *Content[R, C, U]) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	h.edit(w, r, func(e *blocks.Editor) error { return e.Remove(index) })
}

type moveRequest struct {
	Direction blocks.Direction `json:"direction"`
}

func (h *Content[R, C, U]) MoveBlock(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req, ""); err != nil {
		writeFailure(w, r, "decode move", err)
		return
	}
	if req.Direction != blocks.Up && req.Direction != blocks.Down {
		writeInvalid(w, models.NewValidationError("direction", `must be "up" or "down"`))
		return
	}
	h.edit(w, r, func(e *blocks.Editor) error { return e.Move(index, req.Direction) })
}

// edit runs op against the stored sequence and persists the result.
func (h *Content[R, C, U]) edit(w http.ResponseWriter, r *http.Request, op func(*blocks.Editor) error) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}

	ed := blocks.NewEditor((*rec).Blocks())
	if err := op(ed); err != nil {
		writeEditorError(w, r, err)
		return
	}

	updated, err := h.store.Update(r.Context(), (*rec).Key(), h.withContent(ed.Blocks()))
	if err != nil {
		writeFailure(w, r, "update "+h.kind, err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, h.kind+" not found")
		return
	}
	h.Invalidate(r)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Content[R, C, U]) load(w http.ResponseWriter, r *http.Request) (*R, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, "get "+h.kind, err)
		return nil, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, h.kind+" not found")
		return nil, false
	}
	return rec, true
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, ok := pathInt(r, "index")
	if !ok || n > math.MaxInt32 {
		writeError(w, http.StatusBadRequest, "invalid block index")
		return 0, false
	}
	return int(n), true
}

// writeEditorError answers 404 for a missing block and 400 for a block
// that would become invalid.
func writeEditorError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, blocks.ErrIndexOutOfRange) {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}
	var be *blocks.Error
	if errors.As(err, &be) {
		if be.Index < 0 {
			writeInvalid(w, models.NewValidationError(be.Field, be.Message))
			return
		}
		writeFailure(w, r, "edit block", models.AsValidation("content", err))
		return
	}
	writeFailure(w, r, "edit block", err)
}
