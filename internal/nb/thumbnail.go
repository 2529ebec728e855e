package nb

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	// CoverPage is the canvas label of the front cover.
	CoverPage = "C1"

	thumbnailSuffix     = "/full/!200,200/0/native.jpg"
	defaultProbeTimeout = 5 * time.Second
)

// ThumbnailURL returns the 200x200 IIIF rendition for a page image service URL.
func ThumbnailURL(pageURL string) string {
	return pageURL + thumbnailSuffix
}

// Prober picks a preview thumbnail for a book.
type Prober struct {
	httpClient Doer
	timeout    time.Duration
	userAgent  string
}

// NewProber returns a Prober using d for HEAD requests. A nil d uses
// http.DefaultClient and a zero timeout uses five seconds per probe.
func NewProber(d Doer, timeout time.Duration) *Prober {
	if d == nil {
		d = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{
		httpClient: d,
		timeout:    timeout,
		userAgent:  DefaultUserAgent,
	}
}

// Thumbnail returns the preview page name and thumbnail URL. The cover is
// used when the image service answers 200 for it; otherwise the first
// numbered page is used without probing. Both are empty when the book has no
// pages.
func (p *Prober) Thumbnail(ctx context.Context, b Book) (page, thumbnail string) {
	if base, ok := b.PageURL[CoverPage]; ok {
		cover := ThumbnailURL(base)
		if p.exists(ctx, cover) {
			return CoverPage, cover
		}
	}

	if len(b.PageNames) > 0 {
		first := b.PageNames[0]
		return first, ThumbnailURL(b.PageURL[first])
	}
	return "", ""
}

func (p *Prober) exists(ctx context.Context, imageURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		slog.Debug("Failed to build thumbnail probe", "url", imageURL, "err", err)
		return false
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.Debug("Thumbnail probe failed", "url", imageURL, "err", err)
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
