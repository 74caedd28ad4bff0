package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"portfolio/internal/models"
	"portfolio/internal/storage"
)

// DefaultMaxResumeBytes caps résumé uploads when no limit is configured.
const DefaultMaxResumeBytes = 10 << 20

// allowedResumeTypes maps accepted extensions to their content type.
var allowedResumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// FileStore is where uploaded files are kept.
type FileStore interface {
	Upload(ctx context.Context, key, filename, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// Resumes serves the résumé shortcuts and uploads.
type Resumes struct {
	*Resource[models.Resume, models.ResumeInput, models.ResumePatch]
	files    FileStore
	maxBytes int64
}

// NewResumes wraps res. files may be nil, in which case uploads are
// unavailable.
func NewResumes(res *Resource[models.Resume, models.ResumeInput, models.ResumePatch], files FileStore, maxBytes int64) *Resumes {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResumeBytes
	}
	return &Resumes{Resource: res, files: files, maxBytes: maxBytes}
}

// UploadsEnabled reports whether a file store is configured.
func (h *Resumes) UploadsEnabled() bool {
	return h.files != nil
}

func (h *Resumes) latest(ctx context.Context) (*models.Resume, error) {
	all, err := h.store.List(ctx)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[0], nil
}

// Latest returns the newest résumé, or null when none was uploaded.
func (h *Resumes) Latest(w http.ResponseWriter, r *http.Request) {
	rec, err := h.latest(r.Context())
	if err != nil {
		writeFailure(w, r, "latest resume", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Download redirects to the newest résumé file.
func (h *Resumes) Download(w http.ResponseWriter, r *http.Request) {
	rec, err := h.latest(r.Context())
	if err != nil {
		writeFailure(w, r, "latest resume", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no resume uploaded")
		return
	}
	http.Redirect(w, r, rec.URL, http.StatusFound)
}

// Upload stores a multipart "file" and records it as the newest résumé.
func (h *Resumes) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<10)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeInvalid(w, models.NewValidationError("file", "must be a multipart upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeInvalid(w, models.NewValidationError("file", "is required"))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	contentType, ok := allowedResumeTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		writeInvalid(w, models.NewValidationError("file", "must be a PDF or Word document"))
		return
	}
	if header.Size <= 0 {
		writeInvalid(w, models.NewValidationError("file", "is empty"))
		return
	}
	if header.Size > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	key := storage.ResumeKey(filename)
	url, err := h.files.Upload(r.Context(), key, filename, contentType, file, header.Size)
	if err != nil {
		writeFailure(w, r, "upload resume", err)
		return
	}

	rec, err := h.store.Create(r.Context(), models.ResumeInput{URL: url, Filename: filename})
	if err != nil {
		if derr := h.files.Delete(context.WithoutCancel(r.Context()), key); derr != nil {
			slog.Warn("orphaned resume object", "key", key, "error", derr)
		}
		writeFailure(w, r, "record resume", err)
		return
	}
	h.Invalidate(r)
	slog.Info("resume uploaded", "id", rec.ID, "filename", filename, "bytes", header.Size)
	writeJSON(w, http.StatusCreated, rec)
}
