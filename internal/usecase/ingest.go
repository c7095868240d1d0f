package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"NewsBot/internal/domain"
	"NewsBot/internal/ports"
)

// Ingestor pulls entries from every configured feed and stores the ones
// whose fingerprints are new.
type Ingestor struct {
	sources    []ports.FeedSource
	repository ports.ArticleRepository
	logger     *slog.Logger
}

// NewIngestor wires feed sources to the repository.
func NewIngestor(sources []ports.FeedSource, repo ports.ArticleRepository, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		sources:    sources,
		repository: repo,
		logger:     logger,
	}
}

// Run fetches all feeds concurrently and inserts new articles. A feed that
// fails to fetch or parse is logged and skipped; it never aborts the other
// sources. A repository error is fatal to the run, leaving already
// committed inserts in place.
func (i *Ingestor) Run(ctx context.Context) error {
	fetched := make([][]domain.Article, len(i.sources))

	g, gctx := errgroup.WithContext(ctx)
	for idx, source := range i.sources {
		idx, source := idx, source
		g.Go(func() error {
			articles, err := source.Fetch(gctx)
			if err != nil {
				i.logger.Warn("skipping feed", "url", source.URL(), "error", err)
				return nil
			}
			fetched[idx] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch feeds: %w", err)
	}

	stored := 0
	for idx, articles := range fetched {
		for _, article := range articles {
			inserted, err := i.repository.SaveArticle(ctx, article)
			if err != nil {
				return fmt.Errorf("save article %q: %w", article.Title, err)
			}
			if !inserted {
				i.logger.Debug("article already exists", "title", article.Title)
				continue
			}
			stored++
			i.logger.Info("stored article", "title", article.Title, "source", i.sources[idx].URL())
		}
	}

	i.logger.Info("ingestion complete", "feeds", len(i.sources), "new_articles", stored)
	return nil
}
