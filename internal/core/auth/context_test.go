package auth

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func basic(userpass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(userpass))
}

// =============================================================================
// ExtractCredentials Tests
// =============================================================================

func TestExtractCredentials(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantOK   bool
		wantUser string
		wantPass string
	}{
		{"missing", "", false, "", ""},
		{"bearer", "Bearer abc.def.ghi", false, "", ""},
		{"bad base64", "Basic !!!", false, "", ""},
		{"no colon", basic("admin"), false, "", ""},
		{"empty user", basic(":secret"), false, "", ""},
		{"valid", basic("admin:secret"), true, "admin", "secret"},
		{"lowercase scheme", "basic " + base64.StdEncoding.EncodeToString([]byte("admin:secret")), true, "admin", "secret"},
		{"colon in password", basic("admin:a:b"), true, "admin", "a:b"},
		{"empty password", basic("admin:"), true, "admin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, ok := ExtractCredentials(MapHeaderGetter{HeaderAuthorization: tt.header})
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantUser, creds.Username)
			assert.Equal(t, tt.wantPass, creds.Password)
		})
	}
}

func TestChallenge(t *testing.T) {
	assert.Equal(t, `Basic realm="mumblr admin", charset="UTF-8"`, Challenge(""))
	assert.Equal(t, `Basic realm="my 'blog'", charset="UTF-8"`, Challenge(`my "blog"`))
}

// =============================================================================
// Verifier Tests
// =============================================================================

func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestNewVerifier(t *testing.T) {
	_, err := NewVerifier("admin", "")
	assert.ErrorIs(t, err, ErrAdminDisabled)

	_, err = NewVerifier("admin", "not-a-bcrypt-hash")
	assert.Error(t, err)

	v, err := NewVerifier("admin", testHash(t, "secret"))
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestVerifier_Verify(t *testing.T) {
	v, err := NewVerifier("admin", testHash(t, "secret"))
	require.NoError(t, err)

	ctx := v.Verify(Credentials{Username: "admin", Password: "secret"})
	assert.True(t, ctx.Authenticated)
	assert.Equal(t, "admin", ctx.Username)

	assert.False(t, v.Verify(Credentials{Username: "admin", Password: "wrong"}).Authenticated)
	assert.False(t, v.Verify(Credentials{Username: "root", Password: "secret"}).Authenticated)
}

func TestVerifier_Nil(t *testing.T) {
	var v *Verifier
	assert.False(t, v.Verify(Credentials{Username: "admin", Password: "secret"}).Authenticated)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))

	_, err = HashPassword("")
	assert.Error(t, err)
}

// =============================================================================
// Context Storage Tests
// =============================================================================

func TestContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), Context{Username: "admin", Authenticated: true})
	got := FromContext(ctx)
	assert.True(t, got.Authenticated)
	assert.Equal(t, "admin", got.Username)
}

func TestFromContext_Missing(t *testing.T) {
	assert.False(t, FromContext(context.Background()).Authenticated)
}
