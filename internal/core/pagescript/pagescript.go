// Package pagescript renders the script loaded by the entry admin pages.
//
// The script binds slug derivation to the title field and makes the admin
// sidebar follow the page scroll through the jQuery scrollFollow plugin,
// which the page is expected to load.
package pagescript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"text/template"

	"github.com/artpar/mumblr/internal/core/slug"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrContainerRequired = errors.New("scroll follow container is required")
	ErrNegativeTiming    = errors.New("scroll follow offset, speed and delay cannot be negative")
	ErrInvalidName       = errors.New("field and element names may only contain letters, digits, hyphens and underscores")
)

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// =============================================================================
// Options
// =============================================================================

// ScrollFollow configures the scrollFollow plugin. Speed and Delay are in
// milliseconds.
type ScrollFollow struct {
	Container string `json:"container"`
	Offset    int    `json:"offset"`
	Speed     int    `json:"speed"`
	Delay     int    `json:"delay"`
}

// DefaultScrollFollow returns the sidebar settings of the default theme.
func DefaultScrollFollow() ScrollFollow {
	return ScrollFollow{
		Container: "pagehead",
		Offset:    0,
		Speed:     200,
		Delay:     100,
	}
}

// Validate checks the scroll follow settings.
func (s ScrollFollow) Validate() error {
	if s.Container == "" {
		return ErrContainerRequired
	}
	if !nameRegex.MatchString(s.Container) {
		return fmt.Errorf("container %q: %w", s.Container, ErrInvalidName)
	}
	if s.Offset < 0 || s.Speed < 0 || s.Delay < 0 {
		return ErrNegativeTiming
	}
	return nil
}

// Options configures the rendered script.
type Options struct {
	TitleField   string
	SlugField    string
	SidebarID    string
	SlugMode     slug.Mode
	ScrollFollow ScrollFollow
}

// DefaultOptions returns the options of the default theme.
func DefaultOptions() Options {
	return Options{
		TitleField:   "title",
		SlugField:    "slug",
		SidebarID:    "admin-box",
		SlugMode:     slug.ModeLiteral,
		ScrollFollow: DefaultScrollFollow(),
	}
}

// Validate checks names and scroll follow settings.
func (o Options) Validate() error {
	for _, name := range []string{o.TitleField, o.SlugField, o.SidebarID} {
		if !nameRegex.MatchString(name) {
			return fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
	}
	if _, err := slug.ParseMode(string(o.SlugMode)); err != nil {
		return err
	}
	return o.ScrollFollow.Validate()
}

// =============================================================================
// Rendering
// =============================================================================

// The keyup handler mirrors slug.Derive; the hyphen collapse regex is /-+/
// for slug.ModeLiteral and /-+/g for slug.ModeCollapse.
const script = `jQuery.fn.slugify = function(target) {
    var $target = jQuery(target);
    jQuery(this).keyup(function() {
        var slug = jQuery(this).val().replace(/\s+/g, '-').replace(/[^a-zA-Z0-9\-]/g, '').toLowerCase();
        $target.val(slug.replace({{.Collapse}}, '-'));
    });
};
jQuery(function() {
    jQuery({{.TitleSelector}}).slugify({{.SlugSelector}});
    jQuery({{.SidebarSelector}}).scrollFollow({{.ScrollFollow}});
});
`

var scriptTemplate = template.Must(template.New("pagescript").Parse(script))

type scriptData struct {
	Collapse        string
	TitleSelector   string
	SlugSelector    string
	SidebarSelector string
	ScrollFollow    string
}

// Render returns the admin page script for o.
func Render(o Options) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	mode, _ := slug.ParseMode(string(o.SlugMode))
	collapse := "/-+/"
	if mode == slug.ModeCollapse {
		collapse = "/-+/g"
	}

	follow, err := json.Marshal(o.ScrollFollow)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = scriptTemplate.Execute(&buf, scriptData{
		Collapse:        collapse,
		TitleSelector:   quote("input[name=" + o.TitleField + "]"),
		SlugSelector:    quote("input[name=" + o.SlugField + "]"),
		SidebarSelector: quote("#" + o.SidebarID),
		ScrollFollow:    string(follow),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
