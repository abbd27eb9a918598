// Package domain contains the core domain types and validation logic.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/artpar/mumblr/internal/core/slug"
	"github.com/google/uuid"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrSlugRequired     = errors.New("slug is required")
	ErrSlugInvalidChars = errors.New("slug can only contain letters, digits, underscores and hyphens")
	ErrInvalidEntryType = errors.New("invalid entry type")

	// Type-specific field errors
	ErrContentRequired  = errors.New("content is required for text entries")
	ErrLinkURLRequired  = errors.New("link_url is required for link entries")
	ErrImageURLRequired = errors.New("image_url is required for image entries")
	ErrVideoURLRequired = errors.New("video_url is required for video entries")
	ErrInvalidURL       = errors.New("URL must be an absolute http or https URL")

	ErrExpiryBeforePublish = errors.New("expiry date must be after publish date")
)

// =============================================================================
// Entry Types
// =============================================================================

type EntryType string

const (
	EntryTypeText  EntryType = "text"
	EntryTypeLink  EntryType = "link"
	EntryTypeImage EntryType = "image"
	EntryTypeVideo EntryType = "video"
)

// EntryTypes lists every entry type in display order.
var EntryTypes = []EntryType{EntryTypeText, EntryTypeLink, EntryTypeImage, EntryTypeVideo}

// IsValid checks if the entry type is known.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeText, EntryTypeLink, EntryTypeImage, EntryTypeVideo:
		return true
	default:
		return false
	}
}

// ParseEntryType parses an entry type name, ignoring case.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
	}
	return t, nil
}

// =============================================================================
// Entry
// =============================================================================

// Entry is a single blog post. Which of the URL fields is used depends on
// Type: link entries point at LinkURL, image entries show ImageURL and
// video entries embed VideoURL.
type Entry struct {
	ID              string     `json:"id"`
	Type            EntryType  `json:"type"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content,omitempty"`
	Description     string     `json:"description,omitempty"`
	LinkURL         string     `json:"link_url,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	VideoURL        string     `json:"video_url,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	Published       bool       `json:"published"`
	CommentsEnabled bool       `json:"comments_enabled"`
	PublishDate     time.Time  `json:"publish_date"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewEntry creates a published entry of the given type. The slug is derived
// from the title; callers may replace it before validating.
func NewEntry(entryType EntryType, title string) (*Entry, error) {
	if !entryType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntryType, entryType)
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now().UTC()
	return &Entry{
		ID:              NewEntryID(),
		Type:            entryType,
		Title:           title,
		Slug:            slug.Derive(title),
		Published:       true,
		CommentsEnabled: true,
		PublishDate:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// NewEntryID returns a fresh entry identifier.
func NewEntryID() string {
	return "entry_" + uuid.New().String()[:8]
}

// Touch records a modification.
func (e *Entry) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// IsLive reports whether the entry is visible to readers at now: it is
// published, its publish date has passed and it has not expired.
func (e *Entry) IsLive(now time.Time) bool {
	if !e.Published {
		return false
	}
	if e.PublishDate.After(now) {
		return false
	}
	if e.ExpiryDate != nil && !e.ExpiryDate.After(now) {
		return false
	}
	return true
}

// PermalinkLayout formats the date part of a permalink before lowercasing.
const PermalinkLayout = "2006/Jan/02"

// Permalink returns the entry's public path, e.g. /2010/jan/05/my-entry/.
func (e *Entry) Permalink() string {
	date := strings.ToLower(e.PublishDate.UTC().Format(PermalinkLayout))
	return "/" + date + "/" + e.Slug + "/"
}

// ParsePermalinkDate parses the year, month abbreviation and day of a
// permalink. The month is matched case-insensitively.
func ParsePermalinkDate(year, month, day string) (time.Time, error) {
	return time.Parse(PermalinkLayout, year+"/"+month+"/"+day)
}

// TargetURL returns the URL the entry's title links to, if any.
func (e *Entry) TargetURL() string {
	switch e.Type {
	case EntryTypeLink:
		return e.LinkURL
	case EntryTypeVideo:
		return e.VideoURL
	default:
		return ""
	}
}

// =============================================================================
// Validation Functions (Pure)
// =============================================================================

var slugRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateTitle validates an entry title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// ValidateSlug validates an entry slug.
func ValidateSlug(s string) error {
	if s == "" {
		return ErrSlugRequired
	}
	if !slugRegex.MatchString(s) {
		return ErrSlugInvalidChars
	}
	return nil
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidURL
	}
	return nil
}

// ValidateEntry validates an entry and returns all validation errors.
func ValidateEntry(e Entry) []error {
	var errs []error

	if !e.Type.IsValid() {
		errs = append(errs, ErrInvalidEntryType)
	}
	if err := ValidateTitle(e.Title); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateSlug(e.Slug); err != nil {
		errs = append(errs, err)
	}

	requireURL := func(value string, missing error) {
		if value == "" {
			errs = append(errs, missing)
			return
		}
		if err := ValidateURL(value); err != nil {
			errs = append(errs, err)
		}
	}

	switch e.Type {
	case EntryTypeText:
		if strings.TrimSpace(e.Content) == "" {
			errs = append(errs, ErrContentRequired)
		}
	case EntryTypeLink:
		requireURL(e.LinkURL, ErrLinkURLRequired)
	case EntryTypeImage:
		requireURL(e.ImageURL, ErrImageURLRequired)
	case EntryTypeVideo:
		requireURL(e.VideoURL, ErrVideoURLRequired)
	}

	if e.ExpiryDate != nil && !e.ExpiryDate.After(e.PublishDate) {
		errs = append(errs, ErrExpiryBeforePublish)
	}

	return errs
}

// Validate returns the first validation error, or nil.
func (e *Entry) Validate() error {
	if errs := ValidateEntry(*e); len(errs) > 0 {
		return errs[0]
	}
	return nil
}
