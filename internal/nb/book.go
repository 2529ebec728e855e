package nb

import (
	"strings"
)

const urnItemPrefix = "URN:NBN:no-nb_"

// MetadataEntry is one label/value pair from the catalogue record, in the
// order the catalogue lists them. Labels are not guaranteed unique.
type MetadataEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Book is the catalogue view of a single digitized item.
type Book struct {
	// ID is the identifier the book was requested with.
	ID string `json:"id"`

	// MediaType and MediaID are the two halves of the item URN as reported by
	// the catalogue, e.g. "digibok" and "2009041400001".
	MediaType string `json:"media_type"`
	MediaID   string `json:"media_id"`

	Title    string          `json:"title"`
	Metadata []MetadataEntry `json:"metadata"`

	// PageNames lists the numbered pages in reading order. Cover and front
	// matter pages (C1, I1, ...) are only present in PageURL.
	PageNames []string          `json:"page_names"`
	PageURL   map[string]string `json:"page_url"`
	NumPages  int               `json:"num_pages"`

	// Access is the catalogue's accessAllowedFrom value (EVERYWHERE, NORWAY, NB, ...).
	Access string `json:"access"`
}

// URN returns the canonical item URN, URN:NBN:no-nb_<type>_<id>.
func (b Book) URN() string {
	return urnItemPrefix + b.MediaType + "_" + b.MediaID
}

// SplitURN splits URN:NBN:no-nb_<type>_<id> into media type and media id.
// ok is false when urn does not carry the no-nb item prefix.
func SplitURN(urn string) (mediaType, mediaID string, ok bool) {
	rest, found := strings.CutPrefix(urn, urnItemPrefix)
	if !found {
		return "", "", false
	}
	mediaType, mediaID, found = strings.Cut(rest, "_")
	if !found || mediaType == "" || mediaID == "" {
		return "", "", false
	}
	return mediaType, mediaID, true
}
