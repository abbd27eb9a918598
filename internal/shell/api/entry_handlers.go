package api

import (
	"net/http"

	"github.com/artpar/mumblr/internal/core/auth"
	"github.com/artpar/mumblr/internal/core/domain"
	"github.com/artpar/mumblr/internal/core/validation"
	"github.com/artpar/mumblr/internal/shell/store"
	"github.com/go-chi/chi/v5"
)

// =============================================================================
// Public Entry Handlers
// =============================================================================

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	page, msg := validation.ValidatePage(r.URL.Query().Get("page"))
	if msg != "" {
		h.writeError(w, http.StatusBadRequest, msg, "validation_error")
		return
	}

	filter := store.LiveFilter{
		Now: h.now(),
		Tag: domain.NormalizeTag(r.URL.Query().Get("tag")),
	}

	total, err := h.store.CountLiveEntries(r.Context(), filter)
	if err != nil {
		h.writeStoreError(w, err, "count entries")
		return
	}

	perPage := h.cfg.EntriesPerPage
	pages := (total + perPage - 1) / perPage
	if page > 1 && page > pages {
		h.writeError(w, http.StatusNotFound, "page not found", "page_not_found")
		return
	}

	entries, err := h.store.ListLiveEntries(r.Context(), filter, store.PageOptions(page, perPage))
	if err != nil {
		h.writeStoreError(w, err, "list entries")
		return
	}

	h.writeJSON(w, http.StatusOK, ListEntriesResponse{
		Entries: entriesToResponse(entries),
		Total:   total,
		Page:    page,
		Pages:   pages,
		Tag:     filter.Tag,
	})
}

// handleGetEntry resolves a permalink such as /2010/jan/05/my-entry.
func (h *Handler) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	day, err := domain.ParsePermalinkDate(
		chi.URLParam(r, "year"),
		chi.URLParam(r, "month"),
		chi.URLParam(r, "day"),
	)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "entry not found", "entry_not_found")
		return
	}

	entry, err := h.store.GetEntryByPermalink(r.Context(), day, chi.URLParam(r, "slug"))
	if err != nil {
		h.writeStoreError(w, err, "get entry")
		return
	}

	if !auth.CanViewEntry(auth.FromContext(r.Context()), *entry, h.now()) {
		h.writeError(w, http.StatusNotFound, "entry not found", "entry_not_found")
		return
	}

	h.writeJSON(w, http.StatusOK, entryToResponse(entry))
}

func (h *Handler) handleTagCloud(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.LiveTagCounts(r.Context(), h.now())
	if err != nil {
		h.writeStoreError(w, err, "count tags")
		return
	}

	h.writeJSON(w, http.StatusOK, TagCloudResponse{Tags: domain.TagCloud(counts)})
}
