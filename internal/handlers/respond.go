// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: the generic CRUD resource
// mounted once per entity kind, the block editor, search, résumé upload,
// the contact form and the authentication endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/blocks"
	"portfolio/internal/models"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errorBody is the shape of every error response.
type errorBody struct {
	Error   string              `json:"error"`
	Details []models.FieldError `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeInvalid answers 400 with one detail per failed field.
func writeInvalid(w http.ResponseWriter, ve *models.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body", Details: ve.Fields})
}

// writeFailure maps err to a response. Validation errors become 400 with
// details; anything else is logged and answered with a generic 500.
func writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		writeInvalid(w, ve)
		return
	}
	slog.Error(op+" failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON reads a size-limited JSON body into dst. Decoding problems are
// returned as *models.ValidationError so callers can answer 400 directly.
// contentField names the payload field holding a block sequence, if any.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, contentField string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return decodeError(err, contentField)
	}
	if dec.More() {
		return models.NewValidationError("body", "must contain a single JSON value")
	}
	return nil
}

func decodeError(err error, contentField string) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
		blockErr  *blocks.Error
	)
	switch {
	case contentField != "" && errors.As(err, &blockErr):
		return models.NewValidationError(blockErr.Path(contentField), blockErr.Message)
	case errors.Is(err, io.EOF):
		return models.NewValidationError("body", "is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return models.NewValidationError("body", "is not valid JSON")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return models.NewValidationError(field, fmt.Sprintf("must be %s", jsonKind(typeErr.Type.Kind().String())))
	case errors.As(err, &maxErr):
		return models.NewValidationError("body", fmt.Sprintf("exceeds %d bytes", maxErr.Limit))
	}
	return models.NewValidationError("body", err.Error())
}

func jsonKind(goKind string) string {
	switch goKind {
	case "string":
		return "a string"
	case "slice", "array":
		return "an array"
	case "struct", "map":
		return "an object"
	case "bool":
		return "a boolean"
	case "int", "int64", "int32", "uint", "uint64", "float64", "float32":
		return "a number"
	}
	return "a valid value"
}

// pathInt parses a non-negative integer URL parameter.
func pathInt(r *http.Request, name string) (int64, bool) {
	n, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// pathID parses the {id} URL parameter, answering 400 when it is not a
// positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathInt(r, "id")
	if !ok || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
