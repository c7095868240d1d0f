package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsBot/internal/domain"
	"NewsBot/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	summary TEXT,
	link TEXT NOT NULL,
	published_at TEXT,
	fingerprint TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT UNIQUE NOT NULL
);
`

// SQLiteRepository persists articles and post marks in a sqlite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*SQLiteRepository)(nil)

// Open connects to the sqlite database at path and ensures the schema
// exists. Pass ":memory:" for an ephemeral database (tests).
func Open(path string) (*SQLiteRepository, error) {
	connStr := path
	if path == ":memory:" {
		// Shared cache keeps pooled connections on the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveArticle inserts the article unless its fingerprint is already stored.
// Reports whether a new row was created; a duplicate is a no-op, not an
// error.
func (r *SQLiteRepository) SaveArticle(ctx context.Context, article domain.Article) (bool, error) {
	query, args, err := sq.Insert("articles").
		Options("OR IGNORE").
		Columns("title", "summary", "link", "published_at", "fingerprint").
		Values(article.Title, article.Summary, article.Link, article.PublishedAt, article.Fingerprint).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// NextUnposted returns the oldest article whose fingerprint has no post
// mark, or nil when everything is posted. Selection is strict FIFO by id.
func (r *SQLiteRepository) NextUnposted(ctx context.Context) (*domain.Article, error) {
	query, args, err := sq.Select("id", "title", "summary", "link", "published_at", "fingerprint").
		From("articles").
		Where("fingerprint NOT IN (SELECT fingerprint FROM posts)").
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var article domain.Article
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&article.ID, &article.Title, &article.Summary, &article.Link,
		&article.PublishedAt, &article.Fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}

	return &article, nil
}

// MarkPosted records that a fingerprint has been dispatched. Duplicate
// marks are ignored so a retry after a crash cannot fail here.
func (r *SQLiteRepository) MarkPosted(ctx context.Context, fingerprint string) error {
	query, args, err := sq.Insert("posts").
		Options("OR IGNORE").
		Columns("fingerprint").
		Values(fingerprint).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert post mark: %w", err)
	}

	return nil
}

// ListArticles returns every stored article ordered by id.
func (r *SQLiteRepository) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return r.queryArticles(ctx, "id ASC")
}

// ArticlesNewestFirst returns every stored article, newest insertion first.
func (r *SQLiteRepository) ArticlesNewestFirst(ctx context.Context) ([]domain.Article, error) {
	return r.queryArticles(ctx, "id DESC")
}

func (r *SQLiteRepository) queryArticles(ctx context.Context, order string) ([]domain.Article, error) {
	query, args, err := sq.Select("id", "title", "summary", "link", "published_at", "fingerprint").
		From("articles").
		OrderBy(order).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(&article.ID, &article.Title, &article.Summary,
			&article.Link, &article.PublishedAt, &article.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// ListPosts returns every post mark ordered by id.
func (r *SQLiteRepository) ListPosts(ctx context.Context) ([]domain.PostRecord, error) {
	query, args, err := sq.Select("id", "fingerprint").
		From("posts").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var records []domain.PostRecord
	for rows.Next() {
		var record domain.PostRecord
		if err := rows.Scan(&record.ID, &record.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan post mark: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return records, nil
}

// DeleteArticle removes one article by id, reporting whether a row existed.
func (r *SQLiteRepository) DeleteArticle(ctx context.Context, id int64) (bool, error) {
	return r.deleteByID(ctx, "articles", id)
}

// DeletePost removes one post mark by id, reporting whether a row existed.
func (r *SQLiteRepository) DeletePost(ctx context.Context, id int64) (bool, error) {
	return r.deleteByID(ctx, "posts", id)
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, table string, id int64) (bool, error) {
	query, args, err := sq.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

// CleanupArticles deletes every article row.
func (r *SQLiteRepository) CleanupArticles(ctx context.Context) error {
	return r.cleanup(ctx, "articles")
}

// CleanupPosts deletes every post mark row.
func (r *SQLiteRepository) CleanupPosts(ctx context.Context) error {
	return r.cleanup(ctx, "posts")
}

func (r *SQLiteRepository) cleanup(ctx context.Context, table string) error {
	query, _, err := sq.Delete(table).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("cleanup %s: %w", table, err)
	}

	return nil
}
