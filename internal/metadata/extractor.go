// Package metadata extracts page metadata used to prefill a site's title and
// description when it is registered.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/sitepulse/internal/logger"
)

const (
	// defaultHTTPTimeout is the default timeout for HTTP requests
	defaultHTTPTimeout = 30 * time.Second
)

// SiteMetadata represents suggested values from URL extraction
type SiteMetadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Canonical   string `json:"canonical,omitempty"`
	FaviconURL  string `json:"favicon_url,omitempty"`
}

// Extractor handles metadata extraction from URLs
type Extractor struct {
	logger logger.Logger
	client *http.Client
}

// NewExtractor creates a new metadata extractor
func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{
		logger: log,
		client: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Extract fetches a URL and extracts metadata for form prefilling
func (e *Extractor) Extract(ctx context.Context, siteURL string) (*SiteMetadata, error) {
	e.logger.Info("Extracting metadata from URL",
		logger.String("url", siteURL),
	)

	parsedURL, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent to avoid bot blocking
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; SitePulse/1.0)")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	metadata := &SiteMetadata{
		URL:         siteURL,
		Title:       extractTitle(doc, parsedURL),
		Description: extractDescription(doc),
	}

	if canonical, exists := doc.Find("link[rel='canonical']").Attr("href"); exists {
		metadata.Canonical = canonical
	}
	metadata.FaviconURL = extractFavicon(doc, parsedURL)

	e.logger.Info("Metadata extraction complete",
		logger.String("url", siteURL),
		logger.String("title", metadata.Title),
	)

	return metadata, nil
}

// extractTitle picks a suggested title from the page (priority order)
func extractTitle(doc *goquery.Document, parsedURL *url.URL) string {
	// Try OG title first
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists && ogTitle != "" {
		return ogTitle
	}

	// Try OG site name
	if ogSite, exists := doc.Find("meta[property='og:site_name']").Attr("content"); exists && ogSite != "" {
		return ogSite
	}

	// Try title tag
	if title := doc.Find("title").First().Text(); title != "" {
		return strings.TrimSpace(title)
	}

	// Fall back to domain name
	return parsedURL.Host
}

func extractDescription(doc *goquery.Document) string {
	if og, exists := doc.Find("meta[property='og:description']").Attr("content"); exists && og != "" {
		return og
	}
	if desc, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		return strings.TrimSpace(desc)
	}
	return ""
}

// extractFavicon resolves the first icon link against the page URL. Relative
// hrefs are made absolute so the stored value is directly fetchable.
func extractFavicon(doc *goquery.Document, parsedURL *url.URL) string {
	href, exists := doc.Find("link[rel='icon'], link[rel='shortcut icon']").First().Attr("href")
	if !exists || href == "" {
		return ""
	}

	iconURL, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return parsedURL.ResolveReference(iconURL).String()
}
