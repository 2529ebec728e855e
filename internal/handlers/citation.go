package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nbcite/nbcite/internal/identifier"
	"github.com/nbcite/nbcite/internal/models"
	"github.com/nbcite/nbcite/internal/nb"
)

const msgMissingInput = "Mangler URL eller ID"

func (h *Handler) HandleCitationPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "citation.html", nil)
}

// HandleCitation turns {"url": ...} into the three citation formats.
func (h *Handler) HandleCitation(w http.ResponseWriter, r *http.Request) {
	var request models.CitationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	input := strings.TrimSpace(request.URL)
	if input == "" {
		h.writeError(w, r, msgMissingInput, http.StatusBadRequest)
		return
	}

	mediaID := identifier.Resolve(input)
	book, err := h.fetcher.Fetch(r.Context(), mediaID)
	if err != nil {
		logFetchFailure(r, mediaID, err)
		h.writeError(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	set := h.formatter.Format(book)
	slog.Info("Citation generated", "input", input, "media_id", mediaID, "urn", set.URN)

	h.writeJSON(w, http.StatusOK, set)
}

func logFetchFailure(r *http.Request, id string, err error) {
	reason := "unknown"
	var fetchErr *nb.FetchError
	if errors.As(err, &fetchErr) {
		reason = string(fetchErr.Reason)
	}
	slog.Warn("Catalogue fetch failed", "id", id, "reason", reason, "err", err, "request_id", RequestIDFrom(r.Context()))
}
