package ports

import (
	"context"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

// Fetcher retrieves a raw listing page for a site. Failures are absorbed by
// the orchestrator and count as zero candidates from that site.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// Extractor downloads one article page and returns its plain-text body and
// publication date. It uses its own retrieval path, independent of Fetcher.
type Extractor interface {
	Extract(ctx context.Context, articleURL string) (domain.Extraction, error)
}

// Analyzer runs the structured-output LLM analysis over extracted content.
type Analyzer interface {
	Analyze(ctx context.Context, content string) (domain.ArticleAnalysis, error)
}

// ArticleRepository is the sole writer of durable article rows.
type ArticleRepository interface {
	UpsertByURL(ctx context.Context, up domain.ArticleUpsert) (domain.Article, error)
	List(ctx context.Context, f domain.ArticleFilter) ([]domain.Article, error)
	SetPublished(ctx context.Context, id string, published bool) (domain.Article, error)
}

// RunQueue hands a run request to the background worker. Submit returns as
// soon as the request is enqueued; it never waits for the run itself.
type RunQueue interface {
	Submit(ctx context.Context, req domain.RunRequest) error
}

// Notifier announces a freshly published article on an outbound channel.
type Notifier interface {
	PublishArticle(ctx context.Context, article domain.Article) error
}
