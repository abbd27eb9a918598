package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/artpar/mumblr/internal/core/bookmarklet"
	"github.com/artpar/mumblr/internal/core/domain"
	"github.com/artpar/mumblr/internal/core/validation"
	"github.com/artpar/mumblr/internal/shell/store"
	"github.com/go-chi/chi/v5"
)

// =============================================================================
// Entry Creation
// =============================================================================

// handleAddForm answers the bookmarklet's navigation with the prefilled
// values of the entry-creation form.
func (h *Handler) handleAddForm(w http.ResponseWriter, r *http.Request) {
	entryType, err := domain.ParseEntryType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error(), "unknown_entry_type")
		return
	}

	q := r.URL.Query()
	title := q.Get(bookmarklet.ParamTitle)
	resp := AddFormResponse{
		Type:     string(entryType),
		Title:    title,
		Slug:     h.derive(title),
		LinkURL:  q.Get(bookmarklet.ParamLinkURL),
		VideoURL: q.Get(bookmarklet.ParamVideoURL),
	}
	if resp.VideoURL != "" {
		resp.EmbedURL = domain.EmbedURL(resp.VideoURL)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEntryRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", "validation_error")
		return
	}

	typeName := chi.URLParam(r, "type")
	if req.Slug == "" {
		req.Slug = h.derive(req.Title)
	}

	// Validate required fields using core validation
	if field, msg := validation.ValidateCreateEntryFields(typeName, req.Title, req.Slug); field != "" {
		h.writeError(w, http.StatusBadRequest, msg, "validation_error")
		return
	}

	entryType, _ := domain.ParseEntryType(typeName)
	entry, err := domain.NewEntry(entryType, req.Title)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}
	applyEntryRequest(entry, req)

	if err := entry.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}

	if err := h.store.CreateEntry(r.Context(), entry); err != nil {
		h.writeStoreError(w, err, "create entry")
		return
	}

	h.logger.Info("entry created", "id", entry.ID, "type", entry.Type, "permalink", entry.Permalink())
	h.writeJSON(w, http.StatusCreated, entryToResponse(entry))
}

// =============================================================================
// Entry Management
// =============================================================================

func (h *Handler) handleAdminListEntries(w http.ResponseWriter, r *http.Request) {
	opts := store.DefaultListOptions()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			opts.Limit = l
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil {
			opts.Offset = o
		}
	}
	opts = opts.Normalize()

	entries, err := h.store.ListEntries(r.Context(), opts)
	if err != nil {
		h.writeStoreError(w, err, "list entries")
		return
	}

	h.writeJSON(w, http.StatusOK, AdminListEntriesResponse{
		Entries: entriesToResponse(entries),
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	})
}

func (h *Handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.store.GetEntry(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "get entry")
		return
	}

	req, err := decodeEntryRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", "validation_error")
		return
	}

	if req.Title != "" {
		entry.Title = req.Title
	}
	applyEntryRequest(entry, req)
	entry.Touch()

	if err := entry.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}

	if err := h.store.UpdateEntry(r.Context(), entry); err != nil {
		h.writeStoreError(w, err, "update entry")
		return
	}

	h.writeJSON(w, http.StatusOK, entryToResponse(entry))
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteEntry(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "delete entry")
		return
	}

	h.logger.Info("entry deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Request Decoding
// =============================================================================

// decodeEntryRequest reads a JSON body, or the fields of a submitted form.
func decodeEntryRequest(r *http.Request) (EntryRequest, error) {
	var req EntryRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Title = r.PostForm.Get("title")
		req.Slug = r.PostForm.Get("slug")
		req.Content = r.PostForm.Get("content")
		req.Description = r.PostForm.Get("description")
		req.LinkURL = r.PostForm.Get("link_url")
		req.ImageURL = r.PostForm.Get("image_url")
		req.VideoURL = r.PostForm.Get("video_url")
		req.TagString = r.PostForm.Get("tags")
		req.Published = formBool(r, "published")
		req.CommentsEnabled = formBool(r, "comments_enabled")
		return req, nil
	default:
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
}

// formBool reads a checkbox. Absent fields leave the default untouched.
func formBool(r *http.Request, name string) *bool {
	if _, ok := r.PostForm[name]; !ok {
		return nil
	}
	v := strings.ToLower(r.PostForm.Get(name))
	b := v == "on" || v == "true" || v == "1" || v == "yes"
	return &b
}

// applyEntryRequest copies the fields present in req onto entry.
func applyEntryRequest(entry *domain.Entry, req EntryRequest) {
	if req.Slug != "" {
		entry.Slug = req.Slug
	}
	if req.Content != "" {
		entry.Content = req.Content
	}
	if req.Description != "" {
		entry.Description = req.Description
	}
	if req.LinkURL != "" {
		entry.LinkURL = req.LinkURL
	}
	if req.ImageURL != "" {
		entry.ImageURL = req.ImageURL
	}
	if req.VideoURL != "" {
		entry.VideoURL = req.VideoURL
	}
	switch {
	case req.Tags != nil:
		entry.Tags = domain.NormalizeTags(req.Tags)
	case req.TagString != "":
		entry.Tags = domain.ParseTags(req.TagString)
	}
	if req.Published != nil {
		entry.Published = *req.Published
	}
	if req.CommentsEnabled != nil {
		entry.CommentsEnabled = *req.CommentsEnabled
	}
	if req.PublishDate != nil {
		entry.PublishDate = req.PublishDate.UTC()
	}
	if req.ExpiryDate != nil {
		expiry := req.ExpiryDate.UTC()
		entry.ExpiryDate = &expiry
	}
}
