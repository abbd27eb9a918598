package bookmarklet

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func testConfig() Config {
	return Config{
		LinkURL:       "https://blog.example.com/admin/add/link/",
		VideoURL:      "https://blog.example.com/admin/add/video/",
		VideoPatterns: DefaultVideoPatterns,
	}
}

func newTestCapturer(t *testing.T) *Capturer {
	t.Helper()
	c, err := NewCapturer(testConfig())
	require.NoError(t, err)
	return c
}

// =============================================================================
// Capture Tests
// =============================================================================

func TestCapture_YouTubeUsesVideoEndpoint(t *testing.T) {
	c := newTestCapturer(t)

	got := c.Capture("https://youtube.com/watch?v=abc123", "My Video")

	assert.Equal(t,
		"https://blog.example.com/admin/add/video/?title=My%20Video&video_url=https%3A%2F%2Fyoutube.com%2Fwatch%3Fv%3Dabc123",
		got)
}

func TestCapture_TitleComesFirst(t *testing.T) {
	c := newTestCapturer(t)

	got := c.Capture("https://example.com/article", "Article")

	query := got[strings.Index(got, "?")+1:]
	assert.True(t, strings.HasPrefix(query, "title=Article&"), query)
}

func TestCapture_OrdinaryPageUsesLinkEndpoint(t *testing.T) {
	c := newTestCapturer(t)

	got := c.Capture("https://example.com/article", "An Article")

	assert.True(t, strings.HasPrefix(got, "https://blog.example.com/admin/add/link/?"))
	assert.Contains(t, got, "link_url=https%3A%2F%2Fexample.com%2Farticle")
	assert.NotContains(t, got, "video_url=")
}

func TestCapture_Vimeo(t *testing.T) {
	c := newTestCapturer(t)

	assert.True(t, c.IsVideo("https://vimeo.com/76979871"))
	assert.True(t, c.IsVideo("https://www.youtube.com/watch?v=oHg5SJYRHA0&t=10"))
	assert.False(t, c.IsVideo("https://vimeo.com/channels/staffpicks"))
	assert.False(t, c.IsVideo("https://youtube.com/user/someone"))
}

func TestCapture_NoPatternsNeverVideo(t *testing.T) {
	cfg := testConfig()
	cfg.VideoPatterns = nil

	got, err := Capture(cfg, "https://youtube.com/watch?v=abc123", "x")
	require.NoError(t, err)
	assert.Contains(t, got, "link_url=")
}

func TestCapture_EndpointWithQuery(t *testing.T) {
	cfg := testConfig()
	cfg.LinkURL = "https://blog.example.com/add?type=link"

	got, err := Capture(cfg, "https://example.com/", "T")
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/add?type=link&title=T&link_url=https%3A%2F%2Fexample.com%2F", got)
}

func TestCapture_EndpointEndingInQuestionMark(t *testing.T) {
	cfg := testConfig()
	cfg.LinkURL = "https://blog.example.com/add/?"

	got, err := Capture(cfg, "https://example.com/", "T")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://blog.example.com/add/?title=T&"))
}

func TestCapture_EmptyTitle(t *testing.T) {
	c := newTestCapturer(t)
	assert.Contains(t, c.Capture("https://example.com/", ""), "?title=&link_url=")
}

func TestCapture_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.VideoPatterns = []string{"("}

	_, err := Capture(cfg, "https://example.com/", "x")
	assert.True(t, errors.Is(err, ErrInvalidPattern))
}

// =============================================================================
// Config Tests
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, testConfig().Validate())

	cfg := testConfig()
	cfg.LinkURL = " "
	assert.ErrorIs(t, cfg.Validate(), ErrLinkURLRequired)

	cfg = testConfig()
	cfg.VideoURL = ""
	assert.ErrorIs(t, cfg.Validate(), ErrVideoURLRequired)
}

// =============================================================================
// EncodeURIComponent Tests
// =============================================================================

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Video", "My%20Video"},
		{"a+b", "a%2Bb"},
		{"https://x.com/?a=1&b=2", "https%3A%2F%2Fx.com%2F%3Fa%3D1%26b%3D2"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"Café", "Caf%C3%A9"},
		{"#hash", "%23hash"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeURIComponent(tt.in))
		})
	}
}
