// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecoverer(t *testing.T) {
	t.Run("catches panic and returns JSON 500", func(t *testing.T) {
		handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("something went wrong")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/blog", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got %q", ct)
		}
		if !strings.Contains(rr.Body.String(), `"error":"internal server error"`) {
			t.Errorf("body: got %q", rr.Body.String())
		}
	})

	t.Run("passes through without panic", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		Recoverer(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if !*called || rr.Code != http.StatusOK {
			t.Errorf("got %d, called=%v", rr.Code, *called)
		}
	})

	t.Run("re-raises ErrAbortHandler", func(t *testing.T) {
		handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler {
				t.Errorf("recovered %v, want ErrAbortHandler", rec)
			}
		}()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
