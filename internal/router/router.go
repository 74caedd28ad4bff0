// Package router sets up all HTTP routes and middleware chains of the
// portfolio API. Reads of public kinds are open; every mutation sits behind
// RequireAuth.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/auth"
	"portfolio/internal/blocks"
	"portfolio/internal/cache"
	"portfolio/internal/handlers"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/notify"
	"portfolio/internal/session"
	"portfolio/internal/store"
)

// Deps carries everything the routes need.
type Deps struct {
	Stores   *store.Set
	Cache    *cache.ListCache
	Sessions *session.Store
	Gate     *auth.Gate
	Notifier notify.Notifier
	// Files is nil when object storage is not configured.
	Files          handlers.FileStore
	MaxResumeBytes int64
	NotifyTimeout  time.Duration
	LegacyLogin    bool
	// TrustedProxyHops is how many reverse proxies sit in front of the
	// server; rate limits key clients by the address they report.
	TrustedProxyHops int
}

// Router is the root handler. Stop releases the rate limiters.
type Router struct {
	chi.Router
	limiters []*middleware.RateLimiter
}

// Stop terminates background work started by New.
func (rt *Router) Stop() {
	for _, l := range rt.limiters {
		l.Stop()
	}
}

// New builds the router with all middleware and route groups wired up.
func New(d Deps) *Router {
	proxies := middleware.WithTrustedProxyHops(d.TrustedProxyHops)
	global := middleware.NewRateLimiter("global", middleware.GlobalLimit, middleware.GlobalWindow, "too many requests, please try again later", proxies)
	login := middleware.NewRateLimiter("auth", middleware.AuthLimit, middleware.AuthWindow, "too many login attempts, please try again later", proxies)
	contactLimit := middleware.NewRateLimiter("contact", middleware.ContactLimit, middleware.ContactWindow, "too many messages, please try again later", proxies)

	s := d.Stores
	authH := handlers.NewAuth(d.Gate, d.Sessions, s.Users)
	contact := handlers.NewContact(s.Messages, d.Notifier, d.NotifyTimeout)

	blog := handlers.NewContent(
		handlers.NewResource("blog", s.Blog, d.Cache, handlers.Options{ContentField: "content"}),
		s.Blog,
		func(seq blocks.Sequence) models.BlogPostPatch { return models.BlogPostPatch{Content: &seq} },
	)
	knowledge := handlers.NewContent(
		handlers.NewResource("knowledge", s.Knowledge, d.Cache, handlers.Options{ContentField: "content"}),
		s.Knowledge,
		func(seq blocks.Sequence) models.KnowledgeEntryPatch { return models.KnowledgeEntryPatch{Content: &seq} },
	)
	resumes := handlers.NewResumes(handlers.NewResource("resume", s.Resumes, d.Cache, handlers.Options{}), d.Files, d.MaxResumeBytes)
	messages := handlers.NewResource("messages", s.Messages, d.Cache, handlers.Options{Private: true, ReadOnly: true, NoCreate: true})

	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions, s.Users))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(global.Middleware)

		// Authentication.
		r.Group(func(r chi.Router) {
			r.Use(login.Middleware)
			r.Use(middleware.NoStore)
			r.Get("/auth/google", authH.GoogleStart)
			r.Get("/auth/google/callback", authH.GoogleCallback)
			if d.LegacyLogin {
				r.Post("/login", authH.Login)
			}
		})
		r.With(middleware.NoStore).Post("/logout", authH.Logout)
		r.With(middleware.NoStore).Get("/user", authH.User)
		if d.LegacyLogin {
			r.Route("/user/totp", func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.NoStore)
				r.Post("/setup", authH.TOTPSetup)
				r.Post("/verify", authH.TOTPVerify)
			})
		}

		r.With(contactLimit.Middleware).Post("/contact", contact.Submit)

		// Structured profile kinds.
		r.Route("/education", handlers.NewResource("education", s.Education, d.Cache, handlers.Options{}).Routes)
		r.Route("/experience", handlers.NewResource("experience", s.Experience, d.Cache, handlers.Options{}).Routes)
		r.Route("/projects", handlers.NewResource("projects", s.Projects, d.Cache, handlers.Options{}).Routes)
		r.Route("/skills", handlers.NewResource("skills", s.Skills, d.Cache, handlers.Options{}).Routes)
		r.Route("/certifications", handlers.NewResource("certifications", s.Certifications, d.Cache, handlers.Options{}).Routes)

		// Block content kinds.
		r.Route("/blog", blog.Routes)
		r.Route("/knowledge", knowledge.Routes)

		// Résumé.
		r.Route("/resume", func(r chi.Router) {
			r.Get("/latest", resumes.Latest)
			r.Get("/download", resumes.Download)
			if resumes.UploadsEnabled() {
				r.With(middleware.RequireAuth).Post("/upload", resumes.Upload)
			}
			resumes.Routes(r)
		})

		// Admin inbox.
		r.Route("/messages", messages.Routes)
	})

	return &Router{Router: r, limiters: []*middleware.RateLimiter{global, login, contactLimit}}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
