package bookmarklet

import (
	"net/url"
	"regexp"
	"strings"
)

// Query parameters understood by the entry-creation handler.
const (
	ParamTitle    = "title"
	ParamLinkURL  = "link_url"
	ParamVideoURL = "video_url"
)

// Capturer computes capture targets for a validated Config.
type Capturer struct {
	linkBase  string
	videoBase string
	patterns  []*regexp.Regexp
}

// NewCapturer validates cfg and compiles its patterns.
func NewCapturer(cfg Config) (*Capturer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	patterns, err := compilePatterns(cfg.VideoPatterns)
	if err != nil {
		return nil, err
	}
	return &Capturer{
		linkBase:  queryBase(cfg.LinkURL),
		videoBase: queryBase(cfg.VideoURL),
		patterns:  patterns,
	}, nil
}

// IsVideo reports whether pageURL matches any video pattern.
func (c *Capturer) IsVideo(pageURL string) bool {
	for _, re := range c.patterns {
		if re.MatchString(pageURL) {
			return true
		}
	}
	return false
}

// Capture returns the URL the browser is sent to when the bookmarklet runs
// on pageURL with the given document title. The title argument always comes
// first, followed by video_url or link_url.
func (c *Capturer) Capture(pageURL, title string) string {
	target := c.linkBase
	args := []string{ParamTitle + "=" + EncodeURIComponent(title)}

	if c.IsVideo(pageURL) {
		target = c.videoBase
		args = append(args, ParamVideoURL+"="+EncodeURIComponent(pageURL))
	} else {
		args = append(args, ParamLinkURL+"="+EncodeURIComponent(pageURL))
	}

	return target + strings.Join(args, "&")
}

// Capture is a one-shot NewCapturer(cfg).Capture(pageURL, title).
func Capture(cfg Config, pageURL, title string) (string, error) {
	c, err := NewCapturer(cfg)
	if err != nil {
		return "", err
	}
	return c.Capture(pageURL, title), nil
}

// =============================================================================
// Encoding
// =============================================================================

var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way the browser's encodeURIComponent
// does: everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded
// as UTF-8.
func EncodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}
