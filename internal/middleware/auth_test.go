package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/models"
	"portfolio/internal/session"
	"portfolio/internal/store"
)

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func testSessions(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return session.NewStore(client, time.Hour, false)
}

// signedInRequest creates a session for userID and returns a request
// carrying its cookie.
func signedInRequest(t *testing.T, sessions *session.Store, userID int64) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	if _, err := sessions.Create(context.Background(), w, userID); err != nil {
		t.Fatalf("create session: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestLoadSession(t *testing.T) {
	sessions := testSessions(t)
	users := store.NewMemoryUsers()
	admin, err := users.Create(context.Background(), models.NewUser{Username: "admin", GoogleID: "g-1"})
	if err != nil {
		t.Fatal(err)
	}

	var got *models.User
	handler := LoadSession(sessions, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromCtx(r.Context())
	}))

	t.Run("loads the user behind the cookie", func(t *testing.T) {
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), signedInRequest(t, sessions, admin.ID))
		if got == nil || got.ID != admin.ID {
			t.Fatalf("user: got %+v, want id %d", got, admin.ID)
		}
	})

	t.Run("anonymous without cookie", func(t *testing.T) {
		got = &models.User{}
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if got != nil {
			t.Errorf("expected anonymous request, got %+v", got)
		}
	})

	t.Run("anonymous when the user no longer exists", func(t *testing.T) {
		got = &models.User{}
		handler.ServeHTTP(httptest.NewRecorder(), signedInRequest(t, sessions, 999))
		if got != nil {
			t.Errorf("expected anonymous request, got %+v", got)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("rejects anonymous with JSON 401", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/blog", nil))

		if *called {
			t.Error("next handler must not run")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status: got %d, want 401", rr.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] == "" {
			t.Error("expected error message in body")
		}
	})

	t.Run("passes signed-in user", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/blog", nil)
		req = req.WithContext(WithUser(req.Context(), &models.User{ID: 1, Username: "admin"}))
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, req)

		if !*called || rr.Code != http.StatusOK {
			t.Errorf("expected pass-through, got %d", rr.Code)
		}
	})
}

func TestUserFromCtxWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserKey, "not-a-user")
	if UserFromCtx(ctx) != nil {
		t.Error("expected nil for wrong type")
	}
	if SessionFromCtx(context.Background()) != nil {
		t.Error("expected nil session")
	}
}
