package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsBot/internal/domain"
	"NewsBot/internal/ports"
)

// Placeholder values substituted for fields absent from a feed entry. A
// missing optional field never fails ingestion.
const (
	placeholderTitle   = "No title available"
	placeholderSummary = "No summary available"
	placeholderLink    = "No link available"
)

// Source fetches entries from a single RSS/Atom feed.
type Source struct {
	url        string
	maxEntries int
	parser     *gofeed.Parser
	now        func() time.Time
}

var _ ports.FeedSource = (*Source)(nil)

// NewSource builds a source for one feed URL, keeping at most maxEntries
// entries per fetch.
func NewSource(url string, maxEntries int) *Source {
	if maxEntries <= 0 {
		maxEntries = 3
	}
	return &Source{
		url:        url,
		maxEntries: maxEntries,
		parser:     gofeed.NewParser(),
		now:        time.Now,
	}
}

// URL reports the configured feed location.
func (s *Source) URL() string {
	return s.url
}

// Fetch retrieves and parses the feed, returning at most maxEntries
// articles with their fingerprints computed.
func (s *Source) Fetch(ctx context.Context) ([]domain.Article, error) {
	parsed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.url, err)
	}

	entries := parsed.Items
	if len(entries) > s.maxEntries {
		entries = entries[:s.maxEntries]
	}

	articles := make([]domain.Article, 0, len(entries))
	for _, entry := range entries {
		article := fromEntry(entry, s.now())
		articles = append(articles, article)
	}

	return articles, nil
}

func fromEntry(entry *gofeed.Item, now time.Time) domain.Article {
	title := entry.Title
	if title == "" {
		title = placeholderTitle
	}

	summary := entry.Description
	if summary == "" {
		summary = placeholderSummary
	}

	link := entry.Link
	if link == "" {
		link = placeholderLink
	}

	publishedAt := entry.Published
	if publishedAt == "" {
		publishedAt = now.Format(time.RFC3339)
	}

	return domain.Article{
		Title:       title,
		Summary:     summary,
		Link:        link,
		PublishedAt: publishedAt,
		Fingerprint: domain.Fingerprint(title, summary),
	}
}
