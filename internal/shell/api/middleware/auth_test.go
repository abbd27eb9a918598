package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artpar/mumblr/internal/core/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Test Helpers
// =============================================================================

// testHandler is a simple handler that returns the auth context from request.
func testHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.FromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"authenticated": ctx.Authenticated,
			"username":      ctx.Username,
		})
	})
}

func testVerifier(t *testing.T) *auth.Verifier {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	v, err := auth.NewVerifier("admin", string(hash))
	require.NoError(t, err)
	return v
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// =============================================================================
// AuthMiddleware Tests
// =============================================================================

func TestAuthMiddleware_NoCredentials(t *testing.T) {
	m := NewAuthMiddleware(AuthConfig{Verifier: testVerifier(t)})

	req := httptest.NewRequest("GET", "/api/v1/entries", nil)
	rec := httptest.NewRecorder()
	m.Handler(testHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["authenticated"])
}

func TestAuthMiddleware_ValidCredentials(t *testing.T) {
	m := NewAuthMiddleware(AuthConfig{Verifier: testVerifier(t)})

	req := httptest.NewRequest("GET", "/admin/entries", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	m.Handler(testHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, true, resp["authenticated"])
	assert.Equal(t, "admin", resp["username"])
}

func TestAuthMiddleware_WrongPassword(t *testing.T) {
	m := NewAuthMiddleware(AuthConfig{Verifier: testVerifier(t)})

	req := httptest.NewRequest("GET", "/admin/entries", nil)
	req.SetBasicAuth("admin", "nope")
	rec := httptest.NewRecorder()
	m.Handler(testHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), `realm="mumblr admin"`)
	assert.Equal(t, "unauthorized", decode(t, rec)["code"])
}

func TestAuthMiddleware_NilVerifierRejectsCredentials(t *testing.T) {
	m := NewAuthMiddleware(AuthConfig{})

	req := httptest.NewRequest("GET", "/admin/entries", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	m.Handler(testHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =============================================================================
// RequireAuth Tests
// =============================================================================

func TestRequireAuth_Unauthenticated(t *testing.T) {
	handler := RequireAuth("blog", nil)(testHandler())

	req := httptest.NewRequest("GET", "/admin/entries", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="blog", charset="UTF-8"`, rec.Header().Get("WWW-Authenticate"))
}

func TestRequireAuth_Authenticated(t *testing.T) {
	handler := RequireAuth("", nil)(testHandler())

	req := httptest.NewRequest("GET", "/admin/entries", nil)
	req = req.WithContext(auth.WithContext(req.Context(), auth.Context{Username: "admin", Authenticated: true}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthChain(t *testing.T) {
	m := NewAuthMiddleware(AuthConfig{Verifier: testVerifier(t)})
	handler := m.Handler(RequireAuth("", nil)(testHandler()))

	req := httptest.NewRequest("GET", "/admin/entries", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/admin/entries", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
