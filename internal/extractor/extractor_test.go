package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
  <title>Startup news</title>
  <meta property="article:published_time" content="2025-06-14T08:30:00Z">
</head>
<body>
  <article>
    <h1>Startup news</h1>
    <p>%s</p>
  </article>
</body>
</html>`

func TestExtractReturnsContentAndDate(t *testing.T) {
	t.Parallel()

	paragraph := strings.Repeat("A dense paragraph about African fintech infrastructure. ", 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, articlePage, paragraph)
	}))
	defer server.Close()

	ex := NewExtractor(server.Client())
	got, err := ex.Extract(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if !strings.Contains(got.Content, "African fintech infrastructure") {
		t.Fatalf("content not extracted: %q", got.Content)
	}
	if got.Date != "2025-06-14" {
		t.Fatalf("expected normalized date 2025-06-14, got %q", got.Date)
	}
}

func TestExtractDateFallsBackToTimeElement(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>x</title></head><body>
	<article><time datetime="June 2, 2025">June 2</time><p>body text for the article, long enough to read.</p></article>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	ex := NewExtractor(server.Client())
	got, err := ex.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Date != "2025-06-02" {
		t.Fatalf("expected 2025-06-02, got %q", got.Date)
	}
}

func TestExtractDownloadFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	ex := NewExtractor(server.Client())
	_, err := ex.Extract(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404 page")
	}
	if !errors.Is(err, domain.ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
}
