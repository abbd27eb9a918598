package api

import (
	"net/http"

	"github.com/artpar/mumblr/internal/core/bookmarklet"
	"github.com/artpar/mumblr/internal/core/slug"
	"github.com/artpar/mumblr/internal/core/validation"
)

const javascriptContentType = "text/javascript; charset=utf-8"

// =============================================================================
// Script Handlers
// =============================================================================

// handleBookmarklet serves the bookmarklet. format=source returns the
// readable multi-line version, format=href the value for an <a href>.
func (h *Handler) handleBookmarklet(w http.ResponseWriter, r *http.Request) {
	body := h.bookmarkletJS
	switch r.URL.Query().Get("format") {
	case "", "min":
	case "source":
		body = h.bookmarkletSource
	case "href":
		body = bookmarklet.Href(h.bookmarkletJS)
	default:
		h.writeError(w, http.StatusBadRequest, "format must be min, source or href", "validation_error")
		return
	}
	h.writeScript(w, body)
}

func (h *Handler) handlePageScript(w http.ResponseWriter, r *http.Request) {
	h.writeScript(w, h.pageScript)
}

func (h *Handler) writeScript(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", javascriptContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error("failed to write script", "error", err)
	}
}

// =============================================================================
// Capture Handler
// =============================================================================

// handleCapture performs the bookmarklet's capture on the server and
// redirects to the resulting entry-creation URL.
func (h *Handler) handleCapture(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	title := r.URL.Query().Get("title")

	if field, msg := validation.ValidateCaptureParams(pageURL); field != "" {
		h.writeError(w, http.StatusBadRequest, msg, "validation_error")
		return
	}

	target := h.capturer.Capture(pageURL, title)
	h.logger.Debug("captured page",
		"url", pageURL,
		"video", h.capturer.IsVideo(pageURL),
	)
	http.Redirect(w, r, target, http.StatusFound)
}

// =============================================================================
// Slug Handler
// =============================================================================

// handleSlug derives a slug the way the page script does. mode overrides the
// configured derivation.
func (h *Handler) handleSlug(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	mode := h.cfg.SlugMode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		m, err := slug.ParseMode(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
			return
		}
		mode = m
	}

	h.writeJSON(w, http.StatusOK, SlugResponse{
		Title: title,
		Slug:  slug.Deriver(mode)(title),
		Mode:  string(mode),
	})
}
