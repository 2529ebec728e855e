// Package citation renders nb.no catalogue records as Wikipedia (bokmål and
// nynorsk) and lokalhistoriewiki.no book citations.
package citation

import (
	"regexp"
	"strings"

	"github.com/nbcite/nbcite/internal/nb"
)

// DefaultURNResolver is prepended to a URN to form its public URL.
const DefaultURNResolver = "https://urn.nb.no/"

// Catalogue labels read from the record metadata.
const (
	LabelTitle            = "Tittel"
	LabelAlternativeTitle = "Alternativ tittel"
	LabelAuthor           = "Forfatter"
	LabelPublished        = "Publisert"
	LabelPublisher        = "Forlag"
	LabelPlace            = "Utgivelsessted"
	LabelISBN             = "ISBN"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Fields are the normalized values every citation is built from.
type Fields struct {
	Author    string `json:"author" yaml:"author"`
	Year      string `json:"year" yaml:"year"`
	Title     string `json:"title" yaml:"title"`
	Publisher string `json:"publisher" yaml:"publisher"`
	Place     string `json:"place" yaml:"place"`
	ISBN      string `json:"isbn" yaml:"isbn"`
}

// Set is the result of formatting one record.
type Set struct {
	Bokmal        string            `json:"bokmal" yaml:"bokmal"`
	Nynorsk       string            `json:"nynorsk" yaml:"nynorsk"`
	Lokalhistorie string            `json:"lokalhistorie" yaml:"lokalhistorie"`
	Metadata      map[string]string `json:"metadata" yaml:"metadata"`
	URN           string            `json:"urn" yaml:"urn"`
	URNURL        string            `json:"urn_url" yaml:"urn_url"`
}

// Formatter builds citation sets. The zero value uses DefaultURNResolver.
type Formatter struct {
	URNResolver string
}

// Format renders book with DefaultURNResolver.
func Format(book nb.Book) Set {
	return Formatter{}.Format(book)
}

// Format never fails; missing fields are left out of each citation.
func (f Formatter) Format(book nb.Book) Set {
	metadata := Flatten(book.Metadata)
	fields := ExtractFields(metadata, book.Title)

	urn := book.URN()
	urnURL := f.resolver() + urn

	return Set{
		Bokmal:        Bokmal(fields, urnURL),
		Nynorsk:       Nynorsk(fields, urnURL),
		Lokalhistorie: Lokalhistorie(fields, urn),
		Metadata:      metadata,
		URN:           urn,
		URNURL:        urnURL,
	}
}

func (f Formatter) resolver() string {
	if f.URNResolver == "" {
		return DefaultURNResolver
	}
	return f.URNResolver
}

// Flatten turns the ordered metadata into a label lookup. A label listed more
// than once keeps its last value.
func Flatten(entries []nb.MetadataEntry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Label] = e.Value
	}
	return m
}

// ExtractFields picks the citation fields out of a flattened record.
// recordTitle is the title reported by the catalogue and is the last title fallback.
func ExtractFields(metadata map[string]string, recordTitle string) Fields {
	return Fields{
		Author:    metadata[LabelAuthor],
		Year:      ExtractYear(metadata[LabelPublished]),
		Title:     firstNonEmpty(metadata[LabelTitle], metadata[LabelAlternativeTitle], recordTitle),
		Publisher: metadata[LabelPublisher],
		Place:     metadata[LabelPlace],
		ISBN:      metadata[LabelISBN],
	}
}

// ExtractYear returns the first run of four digits in published, or
// published unchanged when there is none.
func ExtractYear(published string) string {
	if y := yearPattern.FindString(published); y != "" {
		return y
	}
	return published
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NBNToken rewrites URN:NBN:no-nb_... to the NBN:no-nb_... form used by the
// lokalhistoriewiki {{NBN}} template. Other strings are returned unchanged.
func NBNToken(urn string) string {
	if rest, ok := strings.CutPrefix(urn, "URN:NBN:no-nb_"); ok {
		return "NBN:no-nb_" + rest
	}
	return urn
}
