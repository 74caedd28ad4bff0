package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureLogs redirects the default slog logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	t.Run("records status and bytes", func(t *testing.T) {
		logs := captureLogs(t)
		handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/blog/9", nil))

		if rr.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rr.Code)
		}
		out := logs.String()
		for _, want := range []string{"status=404", "path=/api/blog/9", "bytes=21", "level=INFO"} {
			if !strings.Contains(out, want) {
				t.Errorf("log %q missing %q", out, want)
			}
		}
	})

	t.Run("defaults to 200 on bare write", func(t *testing.T) {
		logs := captureLogs(t)
		handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("hello"))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if !strings.Contains(logs.String(), "status=200") {
			t.Errorf("log: %q", logs.String())
		}
	})

	t.Run("server errors log at error level", func(t *testing.T) {
		logs := captureLogs(t)
		handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if !strings.Contains(logs.String(), "level=ERROR") {
			t.Errorf("log: %q", logs.String())
		}
	})
}

func TestStatusRecorderFirstHeaderWins(t *testing.T) {
	rec := NewStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusTeapot)
	if rec.Status != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rec.Status)
	}
}
