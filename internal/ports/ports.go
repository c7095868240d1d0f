package ports

import (
	"context"
	"time"

	"NewsBot/internal/domain"
)

// FeedSource pulls entries from a single syndication feed.
type FeedSource interface {
	URL() string
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// ArticleRepository persists articles and post marks for deduplication.
type ArticleRepository interface {
	SaveArticle(ctx context.Context, article domain.Article) (bool, error)
	NextUnposted(ctx context.Context) (*domain.Article, error)
	MarkPosted(ctx context.Context, fingerprint string) error
}

// Generator produces a summary text for a prompt via an LLM endpoint.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// GenerateOptions tunes a single generation call.
type GenerateOptions struct {
	Temperature       float64
	RepetitionPenalty float64
}

// Notifier delivers a finished message to the external posting API.
type Notifier interface {
	Post(ctx context.Context, message string) error
}

// Scheduler controls when pipeline cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
