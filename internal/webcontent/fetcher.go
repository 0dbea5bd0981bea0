// Package webcontent fetches a business website and extracts the signals
// the pipeline reads: title, description, clipped text, and structured-data
// presence.
package webcontent

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// maxContentLen clips extracted page text to bound downstream token cost.
const maxContentLen = 1000

// maxBodyBytes caps the HTML read from a page.
const maxBodyBytes = 512 * 1024

// Fetcher retrieves and extracts website content.
type Fetcher interface {
	Fetch(ctx context.Context, websiteURL string) (model.WebsiteContent, error)
}

// HTTPFetcher implements Fetcher over plain net/http.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with sensible defaults.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// Fetch downloads the page and extracts content signals. An error leaves
// the caller with a zero WebsiteContent; the pipeline treats that as a
// legitimate all-empty result.
func (f *HTTPFetcher) Fetch(ctx context.Context, websiteURL string) (model.WebsiteContent, error) {
	if strings.TrimSpace(websiteURL) == "" {
		return model.WebsiteContent{}, nil
	}
	if !strings.HasPrefix(websiteURL, "http://") && !strings.HasPrefix(websiteURL, "https://") {
		websiteURL = "https://" + websiteURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, websiteURL, nil)
	if err != nil {
		return model.WebsiteContent{}, eris.Wrap(err, "webcontent: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; GeoAnalyzerBot/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return model.WebsiteContent{}, eris.Wrap(err, "webcontent: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return model.WebsiteContent{}, eris.Errorf("webcontent: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.WebsiteContent{}, eris.Wrap(err, "webcontent: read body")
	}

	return Extract(string(body))
}

// Extract parses HTML and pulls out the content signals.
func Extract(html string) (model.WebsiteContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return model.WebsiteContent{}, eris.Wrap(err, "webcontent: parse html")
	}

	content := model.WebsiteContent{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: metaDescription(doc),
	}

	// JSON-LD blocks are the structured-data signal AI crawlers read.
	content.HasStructuredData = doc.Find(`script[type="application/ld+json"]`).Length() > 0

	doc.Find("script, style, noscript").Remove()
	content.Content = clip(normalizeWhitespace(doc.Find("body").Text()), maxContentLen)

	return content, nil
}

// clip truncates s to at most max bytes without splitting a rune.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func metaDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
		return strings.TrimSpace(desc)
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
