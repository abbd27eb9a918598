package validation

import (
	"strconv"
	"strings"

	"github.com/artpar/mumblr/internal/core/domain"
)

// =============================================================================
// Entry Validation Functions
// =============================================================================

// ValidateCreateEntryFields validates required fields for entry creation.
// Returns the field name and error message if validation fails.
// Returns empty strings if all fields are valid.
//
// Example:
//
//	field, msg := ValidateCreateEntryFields("link", "My Link", "my-link")
//	if field != "" {
//	    // Handle validation error
//	}
func ValidateCreateEntryFields(entryType, title, slug string) (field, message string) {
	if _, err := domain.ParseEntryType(entryType); err != nil {
		return "type", "type must be one of text, link, image, video"
	}
	if strings.TrimSpace(title) == "" {
		return "title", "title is required"
	}
	if err := domain.ValidateSlug(slug); err != nil {
		return "slug", err.Error()
	}
	return "", ""
}

// ValidateCaptureParams validates the page URL handed to a server-side
// capture. Only absolute http(s) URLs can be captured.
func ValidateCaptureParams(pageURL string) (field, message string) {
	if pageURL == "" {
		return "url", "url is required"
	}
	if err := domain.ValidateURL(pageURL); err != nil {
		return "url", "url must be an absolute http(s) URL"
	}
	return "", ""
}

// ValidatePage parses a 1-based page number. An empty value is page 1.
func ValidatePage(raw string) (page int, message string) {
	if raw == "" {
		return 1, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, "page must be a positive integer"
	}
	return n, ""
}
