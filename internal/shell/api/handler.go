// Package api provides HTTP handlers for the mumblr server.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/artpar/mumblr/internal/core/auth"
	"github.com/artpar/mumblr/internal/core/bookmarklet"
	"github.com/artpar/mumblr/internal/core/pagescript"
	"github.com/artpar/mumblr/internal/core/slug"
	authmw "github.com/artpar/mumblr/internal/shell/api/middleware"
	"github.com/artpar/mumblr/internal/shell/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// =============================================================================
// Handler
// =============================================================================

// Config holds everything the handlers need besides the store.
type Config struct {
	Bookmarklet    bookmarklet.Config
	PageScript     pagescript.Options
	SlugMode       slug.Mode
	EntriesPerPage int

	// Verifier checks admin credentials. Nil closes the admin routes.
	Verifier *auth.Verifier
	Realm    string

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// Handler provides HTTP handlers for the API.
type Handler struct {
	store    store.Store
	logger   *slog.Logger
	cfg      Config
	capturer *bookmarklet.Capturer
	derive   func(string) string

	// Both scripts depend on configuration only, so they are rendered once.
	bookmarkletJS     string
	bookmarkletSource string
	pageScript        string
}

// NewHandler creates a new API handler. It fails when the bookmarklet or
// page script configuration is invalid.
func NewHandler(s store.Store, cfg Config, l *slog.Logger) (*Handler, error) {
	if l == nil {
		l = slog.Default()
	}
	if cfg.EntriesPerPage <= 0 {
		cfg.EntriesPerPage = 10
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Realm == "" {
		cfg.Realm = auth.DefaultRealm
	}

	mode, err := slug.ParseMode(string(cfg.SlugMode))
	if err != nil {
		return nil, err
	}
	cfg.SlugMode = mode
	cfg.PageScript.SlugMode = mode

	capturer, err := bookmarklet.NewCapturer(cfg.Bookmarklet)
	if err != nil {
		return nil, fmt.Errorf("bookmarklet: %w", err)
	}
	bookmarkletJS, err := bookmarklet.Render(cfg.Bookmarklet)
	if err != nil {
		return nil, fmt.Errorf("bookmarklet: %w", err)
	}
	bookmarkletSource, err := bookmarklet.RenderSource(cfg.Bookmarklet)
	if err != nil {
		return nil, fmt.Errorf("bookmarklet: %w", err)
	}
	pageScript, err := pagescript.Render(cfg.PageScript)
	if err != nil {
		return nil, fmt.Errorf("page script: %w", err)
	}

	return &Handler{
		store:             s,
		logger:            l,
		cfg:               cfg,
		capturer:          capturer,
		derive:            slug.Deriver(mode),
		bookmarkletJS:     bookmarkletJS,
		bookmarkletSource: bookmarkletSource,
		pageScript:        pageScript,
	}, nil
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(h.requestIDHeader)
	r.Use(authmw.NewAuthMiddleware(authmw.AuthConfig{
		Verifier: h.cfg.Verifier,
		Realm:    h.cfg.Realm,
		Logger:   h.logger,
	}).Handler)

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)

	// Browser-side scripts
	r.Get("/bookmarklet.js", h.handleBookmarklet)
	r.Get("/static/mumblr.js", h.handlePageScript)

	// Server-side capture, the bookmarklet's no-JS twin
	r.Get("/capture", h.handleCapture)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/slug", h.handleSlug)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.handleListEntries)
			r.Get("/{year}/{month}/{day}/{slug}", h.handleGetEntry)
		})

		r.Get("/tags", h.handleTagCloud)
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.cfg.Realm, h.logger))

		r.Get("/add/{type}", h.handleAddForm)
		r.Post("/add/{type}", h.handleCreateEntry)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.handleAdminListEntries)
			r.Put("/{id}", h.handleUpdateEntry)
			r.Delete("/{id}", h.handleDeleteEntry)
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", "check", "database", "error", err)
		checks["database"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeStoreError maps store errors to HTTP responses.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, op string) {
	switch {
	case isNotFound(err):
		h.writeError(w, http.StatusNotFound, "entry not found", "entry_not_found")
	case errors.Is(err, store.ErrDuplicateSlug):
		h.writeError(w, http.StatusConflict, "an entry with this slug was already published that day", "duplicate_slug")
	case errors.Is(err, store.ErrDuplicateID):
		h.writeError(w, http.StatusConflict, "entry already exists", "duplicate_id")
	default:
		h.logger.Error("failed to "+op, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to "+op, "internal_error")
	}
}

func (h *Handler) now() time.Time {
	return h.cfg.Now().UTC()
}

func isNotFound(err error) bool {
	var storeErr *store.StoreError
	if errors.As(err, &storeErr) {
		return errors.Is(storeErr.Unwrap(), store.ErrNotFound)
	}
	return false
}
