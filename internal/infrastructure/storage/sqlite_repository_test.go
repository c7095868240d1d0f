package storage

import (
	"context"
	"path/filepath"
	"testing"

	"NewsBot/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testArticle(title, summary string) domain.Article {
	return domain.Article{
		Title:       title,
		Summary:     summary,
		Link:        "https://example.org/" + title,
		PublishedAt: "2025-01-01T00:00:00Z",
		Fingerprint: domain.Fingerprint(title, summary),
	}
}

func TestSaveArticleIdempotent(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()
	article := testArticle("one", "summary one")

	inserted, err := repo.SaveArticle(ctx, article)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if !inserted {
		t.Fatal("expected first save to insert")
	}

	inserted, err = repo.SaveArticle(ctx, article)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if inserted {
		t.Fatal("duplicate fingerprint must be a no-op")
	}

	articles, err := repo.ListArticles(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected exactly one article, got %d", len(articles))
	}
}

func TestNextUnpostedFIFO(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	// Insert out of id order to check the tie-break is the id itself.
	for _, id := range []int64{3, 1, 2} {
		article := testArticle(string(rune('a'+id)), "summary")
		_, err := repo.db.ExecContext(ctx,
			`INSERT INTO articles (id, title, summary, link, published_at, fingerprint)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, article.Title, article.Summary, article.Link, article.PublishedAt, article.Fingerprint)
		if err != nil {
			t.Fatalf("seed article %d: %v", id, err)
		}
	}

	for _, wantID := range []int64{1, 2, 3} {
		next, err := repo.NextUnposted(ctx)
		if err != nil {
			t.Fatalf("next unposted: %v", err)
		}
		if next == nil {
			t.Fatalf("expected article %d, got none", wantID)
		}
		if next.ID != wantID {
			t.Fatalf("expected id %d, got %d", wantID, next.ID)
		}
		if err := repo.MarkPosted(ctx, next.Fingerprint); err != nil {
			t.Fatalf("mark posted: %v", err)
		}
	}

	next, err := repo.NextUnposted(ctx)
	if err != nil {
		t.Fatalf("next unposted: %v", err)
	}
	if next != nil {
		t.Fatalf("expected no pending article, got id %d", next.ID)
	}
}

func TestMarkPostedIdempotent(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()
	article := testArticle("one", "summary")

	if _, err := repo.SaveArticle(ctx, article); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.MarkPosted(ctx, article.Fingerprint); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := repo.MarkPosted(ctx, article.Fingerprint); err != nil {
		t.Fatalf("duplicate mark must not error: %v", err)
	}

	records, err := repo.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one mark, got %d", len(records))
	}
}

func TestArticlesNewestFirst(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	for _, title := range []string{"oldest", "middle", "newest"} {
		if _, err := repo.SaveArticle(ctx, testArticle(title, "s")); err != nil {
			t.Fatalf("save %s: %v", title, err)
		}
	}

	articles, err := repo.ArticlesNewestFirst(ctx)
	if err != nil {
		t.Fatalf("list newest first: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}
	if articles[0].Title != "newest" || articles[2].Title != "oldest" {
		t.Fatalf("unexpected order: %s .. %s", articles[0].Title, articles[2].Title)
	}
}

func TestDeleteAndCleanup(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	first := testArticle("one", "s1")
	second := testArticle("two", "s2")
	for _, article := range []domain.Article{first, second} {
		if _, err := repo.SaveArticle(ctx, article); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := repo.MarkPosted(ctx, first.Fingerprint); err != nil {
		t.Fatalf("mark: %v", err)
	}

	deleted, err := repo.DeleteArticle(ctx, 1)
	if err != nil {
		t.Fatalf("delete article: %v", err)
	}
	if !deleted {
		t.Fatal("expected row to be deleted")
	}

	deleted, err = repo.DeleteArticle(ctx, 99)
	if err != nil {
		t.Fatalf("delete missing article: %v", err)
	}
	if deleted {
		t.Fatal("deleting a missing id must report false")
	}

	if err := repo.CleanupArticles(ctx); err != nil {
		t.Fatalf("cleanup articles: %v", err)
	}
	if err := repo.CleanupPosts(ctx); err != nil {
		t.Fatalf("cleanup posts: %v", err)
	}

	articles, err := repo.ListArticles(ctx)
	if err != nil {
		t.Fatalf("list articles: %v", err)
	}
	records, err := repo.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(articles) != 0 || len(records) != 0 {
		t.Fatalf("expected empty tables, got %d articles and %d posts", len(articles), len(records))
	}
}
