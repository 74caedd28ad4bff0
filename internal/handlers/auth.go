package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"portfolio/internal/auth"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/session"
	"portfolio/internal/store"
)

// Where the browser lands after the OAuth callback.
const (
	loginSuccessRedirect = "/admin"
	loginFailureRedirect = "/"
)

// Auth groups the authentication endpoints.
type Auth struct {
	gate     *auth.Gate
	sessions *session.Store
	users    store.Users
}

// NewAuth creates the authentication handler group.
func NewAuth(gate *auth.Gate, sessions *session.Store, users store.Users) *Auth {
	return &Auth{gate: gate, sessions: sessions, users: users}
}

// GoogleStart stores a single-use state and redirects to the consent screen.
func (a *Auth) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if !a.gate.OAuthEnabled() {
		writeError(w, http.StatusNotFound, "google login is not configured")
		return
	}
	state, err := a.sessions.SaveState(r.Context(), w)
	if err != nil {
		writeFailure(w, r, "save oauth state", err)
		return
	}
	url, err := a.gate.AuthCodeURL(state)
	if err != nil {
		writeFailure(w, r, "oauth url", err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// GoogleCallback completes the OAuth flow. Every failure ends on the home
// page with neither a session nor a new user.
func (a *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		a.loginFailed(w, r, "provider error", errors.New(e))
		return
	}
	if err := a.sessions.ConsumeState(r.Context(), w, r, q.Get("state")); err != nil {
		a.loginFailed(w, r, "state check", err)
		return
	}

	user, err := a.gate.Complete(r.Context(), q.Get("code"))
	if err != nil {
		a.loginFailed(w, r, "complete", err)
		return
	}
	if _, err := a.sessions.Create(r.Context(), w, user.ID); err != nil {
		a.loginFailed(w, r, "session", err)
		return
	}

	metrics.Logins.WithLabelValues("google", "success").Inc()
	slog.Info("admin signed in", "user_id", user.ID, "method", "google")
	http.Redirect(w, r, loginSuccessRedirect, http.StatusFound)
}

func (a *Auth) loginFailed(w http.ResponseWriter, r *http.Request, stage string, err error) {
	outcome := "failure"
	if errors.Is(err, auth.ErrNotAllowed) {
		outcome = "denied"
	}
	metrics.Logins.WithLabelValues("google", outcome).Inc()
	slog.Warn("google login failed", "stage", stage, "error", err)
	http.Redirect(w, r, loginFailureRedirect, http.StatusFound)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Login is the legacy username and password sign-in.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req, ""); err != nil {
		writeFailure(w, r, "decode login", err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeInvalid(w, &models.ValidationError{Fields: []models.FieldError{
			{Field: "username", Message: "is required"},
			{Field: "password", Message: "is required"},
		}})
		return
	}

	user, err := a.gate.PasswordLogin(r.Context(), req.Username, req.Password, req.Code)
	switch {
	case errors.Is(err, auth.ErrTOTPRequired):
		metrics.Logins.WithLabelValues("password", "totp_required").Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "totp code required", "totpRequired": true})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		metrics.Logins.WithLabelValues("password", "failure").Inc()
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		writeFailure(w, r, "password login", err)
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, user.ID); err != nil {
		writeFailure(w, r, "create session", err)
		return
	}
	metrics.Logins.WithLabelValues("password", "success").Inc()
	slog.Info("admin signed in", "user_id", user.ID, "method", "password")
	writeJSON(w, http.StatusOK, user)
}

// Logout destroys the session. It succeeds without one.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		writeFailure(w, r, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// User returns the signed-in user or 401.
func (a *Auth) User(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// TOTPSetup generates and stores a new secret for the signed-in user. It
// stays inactive until TOTPVerify confirms a code.
func (a *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user.TOTPEnabled {
		writeInvalid(w, models.NewValidationError("totp", "is already enabled"))
		return
	}

	enrollment, err := auth.NewEnrollment(user.Username)
	if err != nil {
		writeFailure(w, r, "totp enrollment", err)
		return
	}
	if err := a.users.SetTOTPSecret(r.Context(), user.ID, enrollment.Secret); err != nil {
		writeFailure(w, r, "save totp secret", err)
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}

type verifyRequest struct {
	Code string `json:"code"`
}

// TOTPVerify enables TOTP once the user proves they hold the secret.
func (a *Auth) TOTPVerify(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req verifyRequest
	if err := decodeJSON(w, r, &req, ""); err != nil {
		writeFailure(w, r, "decode totp", err)
		return
	}
	if user.TOTPSecret == nil {
		writeInvalid(w, models.NewValidationError("totp", "has not been set up"))
		return
	}
	if !auth.ValidateCode(req.Code, *user.TOTPSecret) {
		writeInvalid(w, models.NewValidationError("code", "is invalid"))
		return
	}
	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
			writeFailure(w, r, "enable totp", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"totpEnabled": true})
}
