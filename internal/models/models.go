package models

import "github.com/nbcite/nbcite/internal/nb"

// CitationRequest is the body of POST /citation. URL holds an item URL, a
// URN or a bare media id.
type CitationRequest struct {
	URL string `json:"url"`
}

// PreviewResponse is returned by GET /preview. PreviewPage and Thumbnail are
// null when the item has no usable page image.
type PreviewResponse struct {
	Title       string             `json:"title"`
	Type        string             `json:"type"`
	Pages       int                `json:"pages"`
	PreviewPage *string            `json:"preview_page"`
	Thumbnail   *string            `json:"thumbnail"`
	Access      string             `json:"access"`
	Metadata    []nb.MetadataEntry `json:"metadata"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
