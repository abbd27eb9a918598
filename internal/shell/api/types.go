package api

import (
	"time"

	"github.com/artpar/mumblr/internal/core/domain"
)

// =============================================================================
// Request Types
// =============================================================================

// EntryRequest is the request body for creating or updating an entry.
// Tags may be a list or a single comma or space separated string in
// TagString.
type EntryRequest struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug,omitempty"`
	Content         string     `json:"content,omitempty"`
	Description     string     `json:"description,omitempty"`
	LinkURL         string     `json:"link_url,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	VideoURL        string     `json:"video_url,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	TagString       string     `json:"tag_string,omitempty"`
	Published       *bool      `json:"published,omitempty"`
	CommentsEnabled *bool      `json:"comments_enabled,omitempty"`
	PublishDate     *time.Time `json:"publish_date,omitempty"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
}

// =============================================================================
// Response Types
// =============================================================================

// EntryResponse is the response for entry operations.
type EntryResponse struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Permalink       string     `json:"permalink"`
	Content         string     `json:"content,omitempty"`
	Description     string     `json:"description,omitempty"`
	LinkURL         string     `json:"link_url,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	VideoURL        string     `json:"video_url,omitempty"`
	EmbedURL        string     `json:"embed_url,omitempty"`
	Tags            []string   `json:"tags"`
	Published       bool       `json:"published"`
	CommentsEnabled bool       `json:"comments_enabled"`
	PublishDate     time.Time  `json:"publish_date"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListEntriesResponse is the response for listing entries.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
	Tag     string          `json:"tag,omitempty"`
}

// AdminListEntriesResponse is the response for the admin entry list.
type AdminListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// TagCloudResponse is the response for the tag cloud.
type TagCloudResponse struct {
	Tags []domain.TagWeight `json:"tags"`
}

// SlugResponse is the response for slug derivation.
type SlugResponse struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Mode  string `json:"mode"`
}

// AddFormResponse holds the prefilled values of the entry-creation form
// the bookmarklet navigates to.
type AddFormResponse struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	LinkURL  string `json:"link_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
	EmbedURL string `json:"embed_url,omitempty"`
}

// ErrorResponse is the error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness check response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// =============================================================================
// Conversion
// =============================================================================

func entryToResponse(e *domain.Entry) EntryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := EntryResponse{
		ID:              e.ID,
		Type:            string(e.Type),
		Title:           e.Title,
		Slug:            e.Slug,
		Permalink:       e.Permalink(),
		Content:         e.Content,
		Description:     e.Description,
		LinkURL:         e.LinkURL,
		ImageURL:        e.ImageURL,
		VideoURL:        e.VideoURL,
		Tags:            tags,
		Published:       e.Published,
		CommentsEnabled: e.CommentsEnabled,
		PublishDate:     e.PublishDate,
		ExpiryDate:      e.ExpiryDate,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.Type == domain.EntryTypeVideo {
		resp.EmbedURL = domain.EmbedURL(e.VideoURL)
	}
	return resp
}

func entriesToResponse(entries []domain.Entry) []EntryResponse {
	resp := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, entryToResponse(&entries[i]))
	}
	return resp
}
