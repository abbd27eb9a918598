// Package bookmarklet builds the capture bookmarklet and the entry-creation
// URLs it navigates to.
//
// The endpoints and the video site patterns are configuration injected when
// the bookmarklet is rendered. Patterns must be valid both as Go and as
// JavaScript regular expressions; the common subset (escapes, classes such
// as \d, quantifiers) is all the defaults use.
package bookmarklet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrLinkURLRequired  = errors.New("link entry URL is required")
	ErrVideoURLRequired = errors.New("video entry URL is required")
	ErrInvalidPattern   = errors.New("invalid video pattern")
)

// =============================================================================
// Config
// =============================================================================

// DefaultVideoPatterns match YouTube watch pages and numeric Vimeo video pages.
var DefaultVideoPatterns = []string{
	`youtube\.com/watch\?v=`,
	`vimeo\.com/\d+`,
}

// Config holds the values substituted into the bookmarklet.
type Config struct {
	// LinkURL is the entry-creation endpoint for ordinary pages.
	LinkURL string
	// VideoURL is the entry-creation endpoint used when a video pattern matches.
	VideoURL string
	// VideoPatterns are matched against the captured page URL.
	VideoPatterns []string
}

// Validate checks that both endpoints are set and every pattern compiles.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LinkURL) == "" {
		return ErrLinkURLRequired
	}
	if strings.TrimSpace(c.VideoURL) == "" {
		return ErrVideoURLRequired
	}
	_, err := compilePatterns(c.VideoPatterns)
	return err
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// queryBase returns endpoint ready to have "k=v&k=v" appended.
func queryBase(endpoint string) string {
	switch {
	case !strings.Contains(endpoint, "?"):
		return endpoint + "?"
	case strings.HasSuffix(endpoint, "?"), strings.HasSuffix(endpoint, "&"):
		return endpoint
	default:
		return endpoint + "&"
	}
}
