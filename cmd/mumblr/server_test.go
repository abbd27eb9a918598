package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/mumblr/internal/shell/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig(t *testing.T) *Config {
	t.Helper()
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.Database.DSN = ":memory:"
	return cfg
}

func TestNewServer_Minimal(t *testing.T) {
	cfg := testServerConfig(t)

	srv, err := NewServer(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { srv.store.Close() })

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// No password hash configured: the admin stays closed.
	req := httptest.NewRequest("GET", "/admin/entries", nil)
	req.SetBasicAuth("admin", "anything")
	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewServer_WithAdminAndSeed(t *testing.T) {
	cfg := testServerConfig(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg.Auth.PasswordHash = string(hash)

	seed := `
entries:
  - type: link
    title: The Go Blog
    link_url: https://go.dev/blog/
    publish_date: 2010-01-05T10:00:00Z
`
	cfg.Seed.Path = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.Seed.Path, []byte(seed), 0o600))

	srv, err := NewServer(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { srv.store.Close() })

	entries, err := srv.store.ListEntries(context.Background(), store.DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "the-go-blog", entries[0].Slug)

	req := httptest.NewRequest("GET", "/admin/entries", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServer_BadSeed(t *testing.T) {
	cfg := testServerConfig(t)
	cfg.Seed.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewServer(cfg, testLogger())
	require.Error(t, err)

	var sErr *ServerError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, ExitSeedError, sErr.ExitCode)
}

func TestNewServer_BadPasswordHash(t *testing.T) {
	cfg := testServerConfig(t)
	cfg.Auth.PasswordHash = "plaintext"

	_, err := NewServer(cfg, testLogger())
	var sErr *ServerError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, ExitConfigError, sErr.ExitCode)
}

func TestServer_ShutdownOnContextCancel(t *testing.T) {
	cfg := testServerConfig(t)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	srv, err := NewServer(cfg, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Start(ctx))
}

func TestHashFromReader(t *testing.T) {
	hash, err := hashFromReader(strings.NewReader("secret\n"))
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))

	hash, err = hashFromReader(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("no-newline")))

	_, err = hashFromReader(strings.NewReader("\n"))
	assert.Error(t, err)
}

func TestServerError(t *testing.T) {
	inner := io.ErrUnexpectedEOF
	err := &ServerError{Op: "Start", Err: inner, ExitCode: ExitHTTPServerError}
	assert.Equal(t, "Start: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestExitCode(t *testing.T) {
	logger := testLogger()

	seedErr := &ServerError{Op: "Seed", Err: io.ErrUnexpectedEOF, ExitCode: ExitSeedError}
	assert.Equal(t, ExitSeedError, exitCode(logger, "failed", seedErr))
	assert.Equal(t, ExitSeedError, exitCode(logger, "failed", fmt.Errorf("wrapped: %w", seedErr)))
	assert.Equal(t, ExitConfigError, exitCode(logger, "failed", io.EOF))
}
