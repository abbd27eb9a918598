package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var vimeoIDRegex = regexp.MustCompile(`^/(\d+)`)

// EmbedURL returns the player URL for a YouTube or Vimeo video page, or ""
// when the page is not recognised.
//
//	EmbedURL("https://www.youtube.com/watch?v=abc123")  // "https://www.youtube.com/embed/abc123"
//	EmbedURL("https://vimeo.com/76979871")               // "https://player.vimeo.com/video/76979871"
func EmbedURL(videoURL string) string {
	u, err := url.Parse(videoURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch host {
	case "youtube.com", "m.youtube.com":
		if u.Path != "/watch" {
			return ""
		}
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + url.PathEscape(id)
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube.com/embed/" + url.PathEscape(id)
		}
	case "vimeo.com":
		if m := vimeoIDRegex.FindStringSubmatch(u.Path); m != nil {
			return "https://player.vimeo.com/video/" + m[1]
		}
	}
	return ""
}
