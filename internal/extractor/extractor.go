package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	readability "github.com/go-shiori/go-readability"

	"github.com/Shalom-302/scraapbackend/internal/domain"
	"github.com/Shalom-302/scraapbackend/internal/ports"
)

const (
	extractTimeout  = 30 * time.Second
	maxArticleBytes = 5 << 20

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Meta selectors tried in order for the publication date.
var dateSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`meta[itemprop="datePublished"]`, "content"},
	{`time[datetime]`, "datetime"},
}

// ReadabilityExtractor downloads one article page on its own retrieval path
// and distills it to plain text plus a publication date. Full-article
// extraction has different needs than listing scraping, so it does not share
// the listing fetcher.
type ReadabilityExtractor struct {
	client *http.Client
}

var _ ports.Extractor = (*ReadabilityExtractor)(nil)

// NewExtractor wires an HTTP client; a default one with the extraction
// timeout is used when nil is given.
func NewExtractor(client *http.Client) *ReadabilityExtractor {
	if client == nil {
		client = &http.Client{Timeout: extractTimeout}
	}
	return &ReadabilityExtractor{client: client}
}

// Extract downloads the page and returns its readable text content and
// publication date. Download failures wrap domain.ErrDownloadFailed so the
// orchestrator can record the dedicated condition.
func (e *ReadabilityExtractor) Extract(ctx context.Context, articleURL string) (domain.Extraction, error) {
	parsed, err := url.Parse(articleURL)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("invalid article url %s: %w", articleURL, err)
	}

	raw, err := e.download(ctx, articleURL)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	article, err := readability.FromReader(bytes.NewReader(raw), parsed)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("readability extraction for %s: %w", articleURL, err)
	}

	return domain.Extraction{
		Content: strings.TrimSpace(article.TextContent),
		Date:    publicationDate(raw),
	}, nil
}

func (e *ReadabilityExtractor) download(ctx context.Context, articleURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
}

// publicationDate digs the publication date out of the page metadata and
// normalizes it to YYYY-MM-DD. Returns "" when no usable date is present.
func publicationDate(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	for _, candidate := range dateSelectors {
		value, ok := doc.Find(candidate.selector).First().Attr(candidate.attr)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		parsed, err := dateparse.ParseAny(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		return parsed.Format("2006-01-02")
	}

	return ""
}
