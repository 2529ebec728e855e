package handlers

import (
	"net/http"
	"strings"

	"github.com/nbcite/nbcite/internal/models"
	"github.com/nbcite/nbcite/internal/nb"
)

// HandlePreview returns title, page count, access and a thumbnail for ?id=.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	mediaID := strings.TrimSpace(r.URL.Query().Get("id"))
	if mediaID == "" {
		h.writeError(w, r, "Missing id parameter", http.StatusBadRequest)
		return
	}

	book, err := h.fetcher.Fetch(r.Context(), mediaID)
	if err != nil {
		logFetchFailure(r, mediaID, err)
		h.writeError(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	response := models.PreviewResponse{
		Title:    book.Title,
		Type:     book.MediaType,
		Pages:    book.NumPages,
		Access:   book.Access,
		Metadata: book.Metadata,
	}
	if response.Metadata == nil {
		response.Metadata = []nb.MetadataEntry{}
	}

	if h.thumbnailer != nil {
		if page, thumbnail := h.thumbnailer.Thumbnail(r.Context(), book); thumbnail != "" {
			response.PreviewPage = &page
			response.Thumbnail = &thumbnail
		}
	}

	h.writeJSON(w, http.StatusOK, response)
}
