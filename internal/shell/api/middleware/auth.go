// Package middleware provides HTTP middleware for the mumblr server.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/artpar/mumblr/internal/core/auth"
)

// =============================================================================
// Auth Configuration
// =============================================================================

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Verifier checks admin credentials. If nil, every request is
	// unauthenticated and admin routes stay closed.
	Verifier *auth.Verifier

	// Realm is named in the basic auth challenge.
	Realm string

	// Logger for auth middleware logging.
	Logger *slog.Logger
}

// =============================================================================
// Auth Middleware
// =============================================================================

// AuthMiddleware extracts basic auth credentials, verifies them and stores
// the resulting auth context in the request context.
type AuthMiddleware struct {
	config AuthConfig
}

// NewAuthMiddleware creates a new auth middleware with the given config.
func NewAuthMiddleware(cfg AuthConfig) *AuthMiddleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Realm == "" {
		cfg.Realm = auth.DefaultRealm
	}
	return &AuthMiddleware{config: cfg}
}

// Handler returns the middleware handler function. Requests without
// credentials pass through unauthenticated; wrong credentials are rejected.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, ok := auth.ExtractCredentials(r.Header)
		if !ok {
			next.ServeHTTP(w, r.WithContext(auth.WithContext(r.Context(), auth.Context{})))
			return
		}

		ctx := m.config.Verifier.Verify(creds)
		if !ctx.Authenticated {
			m.config.Logger.Warn("invalid admin credentials",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
				"username", creds.Username,
			)
			w.Header().Set(auth.HeaderWWWAuthenticate, auth.Challenge(m.config.Realm))
			writeJSONError(w, http.StatusUnauthorized, "invalid credentials", "unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithContext(r.Context(), ctx)))
	})
}

// =============================================================================
// Require Auth Middleware
// =============================================================================

// RequireAuth is a middleware that requires an authenticated admin.
// Must be used AFTER AuthMiddleware.
func RequireAuth(realm string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.CanManageEntries(auth.FromContext(r.Context())) {
				logger.Debug("unauthenticated request to admin endpoint",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set(auth.HeaderWWWAuthenticate, auth.Challenge(realm))
				writeJSONError(w, http.StatusUnauthorized, "authentication required", "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// JSON Error Response
// =============================================================================

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSONError writes an error in the API's {error, code} format.
func writeJSONError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}
