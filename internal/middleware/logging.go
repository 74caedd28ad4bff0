// Package middleware provides the HTTP middleware of the portfolio API:
// request logging, panic recovery, security headers, per-IP rate limiting
// and session loading.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// StatusRecorder wraps http.ResponseWriter to capture the status code and
// the number of body bytes written.
type StatusRecorder struct {
	http.ResponseWriter
	Status  int
	Bytes   int
	written bool
}

// NewStatusRecorder wraps w with a default status of 200.
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (rw *StatusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.Status = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *StatusRecorder) Write(b []byte) (int, error) {
	rw.written = true
	n, err := rw.ResponseWriter.Write(b)
	rw.Bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *StatusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logger records method, path, status, duration and remote address for
// every request. Server errors are logged at error level.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status,
			"bytes", rec.Bytes,
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}
