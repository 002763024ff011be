package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Shalom-302/scraapbackend/internal/ports"
)

const (
	fetchTimeout = 20 * time.Second
	// Listing pages are small; anything past this is not a news index.
	maxListingBytes = 10 << 20

	// Some sites answer bots with 403, so present a plain browser.
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// HTTPFetcher retrieves listing pages with a bounded timeout. One failure is
// one site lost, never the whole run; the orchestrator handles that.
type HTTPFetcher struct {
	client *http.Client
}

var _ ports.Fetcher = (*HTTPFetcher)(nil)

// NewFetcher wires an HTTP client; a default one with the standard timeout is
// used when nil is given.
func NewFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &HTTPFetcher{client: client}
}

// Fetch downloads the page and returns its raw HTML bytes.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxListingBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}

	return raw, nil
}
