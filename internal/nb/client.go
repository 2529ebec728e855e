package nb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nbcite/nbcite/internal/identifier"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.nb.no/catalog/v1"
	DefaultUserAgent = "nbcite/0.1 (+https://github.com/nbcite/nbcite)"
)

// Doer is the part of *http.Client the catalogue client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher looks up a catalogue item by media id or URN.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (Book, error)
}

// Client talks to the nb.no catalogue API (IIIF manifests and item records).
type Client struct {
	baseURL    string
	userAgent  string
	httpClient Doer
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.httpClient = d }
}

// WithRateLimit caps outbound requests per second. Zero or less disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a catalogue client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type manifestResponse struct {
	Label    jsonText `json:"label"`
	Metadata []struct {
		Label jsonText `json:"label"`
		Value jsonText `json:"value"`
	} `json:"metadata"`
	Sequences []struct {
		Canvases []struct {
			Label  jsonText `json:"label"`
			Images []struct {
				Resource struct {
					Service struct {
						ID string `json:"@id"`
					} `json:"service"`
				} `json:"resource"`
			} `json:"images"`
		} `json:"canvases"`
	} `json:"sequences"`
}

type itemResponse struct {
	ID       string `json:"id"`
	Metadata struct {
		Title       string   `json:"title"`
		MediaTypes  []string `json:"mediaTypes"`
		Identifiers struct {
			URN string `json:"urn"`
		} `json:"identifiers"`
	} `json:"metadata"`
	AccessInfo struct {
		AccessAllowedFrom string `json:"accessAllowedFrom"`
	} `json:"accessInfo"`
}

type itemSearchResponse struct {
	Embedded struct {
		Items []itemResponse `json:"items"`
	} `json:"_embedded"`
}

// Fetch retrieves the IIIF manifest and item record for id, which is either a
// hex item id or a full URN:NBN string. Every error is a *FetchError.
func (c *Client) Fetch(ctx context.Context, id string) (Book, error) {
	slog.Debug("Fetching catalogue item", "id", id)

	var manifest manifestResponse
	manifestURL := fmt.Sprintf("%s/iiif/%s/manifest", c.baseURL, url.PathEscape(id))
	if err := c.getJSON(ctx, id, manifestURL, &manifest); err != nil {
		return Book{}, err
	}

	item, err := c.fetchItem(ctx, id)
	if err != nil {
		return Book{}, err
	}

	book := Book{
		ID:      id,
		Title:   string(manifest.Label),
		Access:  item.AccessInfo.AccessAllowedFrom,
		PageURL: make(map[string]string),
	}
	if book.Title == "" {
		book.Title = item.Metadata.Title
	}

	urn := item.Metadata.Identifiers.URN
	if urn == "" && identifier.IsURN(id) {
		urn = id
	}
	if mediaType, mediaID, ok := SplitURN(urn); ok {
		book.MediaType, book.MediaID = mediaType, mediaID
	} else {
		if len(item.Metadata.MediaTypes) > 0 {
			book.MediaType = item.Metadata.MediaTypes[0]
		}
		book.MediaID = item.ID
	}

	for _, m := range manifest.Metadata {
		book.Metadata = append(book.Metadata, MetadataEntry{
			Label: string(m.Label),
			Value: string(m.Value),
		})
	}

	if len(manifest.Sequences) > 0 {
		for _, canvas := range manifest.Sequences[0].Canvases {
			name := string(canvas.Label)
			if name == "" || len(canvas.Images) == 0 {
				continue
			}
			book.PageURL[name] = canvas.Images[0].Resource.Service.ID
			if isNumberedPage(name) {
				book.PageNames = append(book.PageNames, name)
			}
		}
	}
	book.NumPages = len(book.PageNames)

	slog.Debug("Fetched catalogue item",
		"id", id,
		"media_type", book.MediaType,
		"media_id", book.MediaID,
		"metadata_fields", len(book.Metadata),
		"pages", book.NumPages)

	return book, nil
}

// fetchItem loads the item record. URNs are looked up through the search
// endpoint since /items/{id} only accepts catalogue ids.
func (c *Client) fetchItem(ctx context.Context, id string) (itemResponse, error) {
	if !identifier.IsURN(id) {
		var item itemResponse
		err := c.getJSON(ctx, id, fmt.Sprintf("%s/items/%s", c.baseURL, url.PathEscape(id)), &item)
		return item, err
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("urn:%q", id))
	var result itemSearchResponse
	if err := c.getJSON(ctx, id, c.baseURL+"/items?"+q.Encode(), &result); err != nil {
		return itemResponse{}, err
	}
	if len(result.Embedded.Items) == 0 {
		return itemResponse{}, &FetchError{Reason: ReasonNotFound, ID: id, Err: ErrNotFound}
	}
	return result.Embedded.Items[0], nil
}

func (c *Client) getJSON(ctx context.Context, id, endpoint string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Reason: ReasonCanceled, ID: id, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{Reason: ReasonRequest, ID: id, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &FetchError{Reason: ReasonCanceled, ID: id, Err: err}
		}
		return &FetchError{Reason: ReasonTransport, ID: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &FetchError{Reason: ReasonNotFound, ID: id, Status: resp.StatusCode, Err: ErrNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &FetchError{
			Reason: ReasonStatus,
			ID:     id,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("catalogue returned: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &FetchError{Reason: ReasonDecode, ID: id, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// isNumberedPage reports whether a canvas label is a body page ("0001", "12")
// rather than cover or front matter ("C1", "I3", "X1").
func isNumberedPage(label string) bool {
	r, _ := utf8.DecodeRuneInString(label)
	return unicode.IsDigit(r)
}

// jsonText decodes IIIF text values, which may be a plain string, an array of
// strings, or language-tagged {"@value": ...} objects. Arrays are joined with "; ".
type jsonText string

func (t *jsonText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = jsonText(s)
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, raw := range list {
			var part jsonText
			if err := part.UnmarshalJSON(raw); err != nil {
				return err
			}
			if part != "" {
				parts = append(parts, string(part))
			}
		}
		*t = jsonText(strings.Join(parts, "; "))
		return nil
	}

	var tagged struct {
		Value string `json:"@value"`
	}
	if err := json.Unmarshal(data, &tagged); err == nil {
		*t = jsonText(tagged.Value)
		return nil
	}

	// numbers and booleans are kept as their literal text
	*t = jsonText(strings.TrimSpace(string(data)))
	return nil
}
