// Package auth provides the admin authentication context and the
// authorization rules for entries.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Context Key
// =============================================================================

type contextKey string

const authContextKey contextKey = "auth"

// =============================================================================
// Types
// =============================================================================

// Context represents the authentication context for a request.
type Context struct {
	// Username is the admin user name taken from the Authorization header.
	Username string

	// Authenticated indicates whether the credentials were verified.
	Authenticated bool
}

// Credentials are the user name and password of an HTTP basic auth header.
type Credentials struct {
	Username string
	Password string
}

// =============================================================================
// Header Constants
// =============================================================================

const (
	// HeaderAuthorization carries the basic auth credentials.
	HeaderAuthorization = "Authorization"

	// HeaderWWWAuthenticate is sent with 401 responses.
	HeaderWWWAuthenticate = "WWW-Authenticate"

	// DefaultRealm is the realm named in the basic auth challenge.
	DefaultRealm = "mumblr admin"
)

// ErrAdminDisabled is returned by NewVerifier when no password hash is set.
var ErrAdminDisabled = errors.New("admin password hash is not configured")

// =============================================================================
// Credential Extraction
// =============================================================================

// HeaderGetter is an interface for getting header values.
// This allows testing without requiring an http.Request.
type HeaderGetter interface {
	Get(key string) string
}

// ExtractCredentials parses basic auth credentials from headers. ok is false
// when the header is missing or malformed.
func ExtractCredentials(headers HeaderGetter) (creds Credentials, ok bool) {
	const prefix = "Basic "
	header := headers.Get(HeaderAuthorization)
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return Credentials{}, false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return Credentials{}, false
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found || username == "" {
		return Credentials{}, false
	}
	return Credentials{Username: username, Password: password}, true
}

// Challenge returns the WWW-Authenticate value for realm.
func Challenge(realm string) string {
	if realm == "" {
		realm = DefaultRealm
	}
	return `Basic realm="` + strings.ReplaceAll(realm, `"`, `'`) + `", charset="UTF-8"`
}

// =============================================================================
// Verification
// =============================================================================

// Verifier checks credentials against the configured admin account.
type Verifier struct {
	username string
	hash     []byte
}

// NewVerifier creates a verifier for username and a bcrypt password hash.
func NewVerifier(username, passwordHash string) (*Verifier, error) {
	if passwordHash == "" {
		return nil, ErrAdminDisabled
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, err
	}
	return &Verifier{username: username, hash: []byte(passwordHash)}, nil
}

// Verify returns the authentication context for creds.
func (v *Verifier) Verify(creds Credentials) Context {
	if v == nil || creds.Username != v.username {
		return Context{Authenticated: false}
	}
	if bcrypt.CompareHashAndPassword(v.hash, []byte(creds.Password)) != nil {
		return Context{Authenticated: false}
	}
	return Context{Username: creds.Username, Authenticated: true}
}

// HashPassword returns the bcrypt hash to put in the auth configuration.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// =============================================================================
// Context Storage
// =============================================================================

// WithContext stores the auth context in the request context.
func WithContext(ctx context.Context, authCtx Context) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

// FromContext retrieves the auth context from the request context.
// If no auth context is found, returns an unauthenticated context.
func FromContext(ctx context.Context) Context {
	if authCtx, ok := ctx.Value(authContextKey).(Context); ok {
		return authCtx
	}
	return Context{Authenticated: false}
}

// =============================================================================
// Helper Types for Testing
// =============================================================================

// MapHeaderGetter wraps a map to implement HeaderGetter interface.
type MapHeaderGetter map[string]string

func (m MapHeaderGetter) Get(key string) string {
	return m[key]
}
