package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("unable to init schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		published TEXT,
		source TEXT,
		topic TEXT,
		summary TEXT,
		saved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS sources (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		type TEXT,
		last_check TEXT
	);
	CREATE TABLE IF NOT EXISTS api_usage (
		day TEXT PRIMARY KEY,
		seconds DOUBLE PRECISION NOT NULL DEFAULT 0
	);`
	_, err := s.db.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// SaveArticleIfNew inserts the article unless one with the same URL
// already exists. Articles without a URL or title are dropped.
func (s *PostgresStore) SaveArticleIfNew(ctx context.Context, a *Article) (bool, error) {
	if a == nil || a.URL == "" || a.Title == "" {
		return false, nil
	}
	query := `
		INSERT INTO articles (title, url, published, source, topic, summary, saved)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		ON CONFLICT (url) DO NOTHING;
	`
	tag, err := s.db.Exec(ctx, query, a.Title, a.URL, a.Published, a.Source, a.Topic, a.Summary)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ArticleExists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM articles WHERE url = $1)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check article: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) MarkSaved(ctx context.Context, url string) error {
	_, err := s.db.Exec(ctx, `UPDATE articles SET saved = TRUE WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("failed to mark article saved: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentArticles(ctx context.Context, limit int) ([]*Article, error) {
	if limit <= 0 {
		limit = 200
	}
	query := `
		SELECT title, url, published, source, topic, summary, saved
		FROM articles ORDER BY published DESC, id DESC LIMIT $1;
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (s *PostgresStore) SavedArticles(ctx context.Context) ([]*Article, error) {
	query := `
		SELECT title, url, published, source, topic, summary, saved
		FROM articles WHERE saved = TRUE ORDER BY published DESC, id DESC;
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticles(rows pgx.Rows) ([]*Article, error) {
	var articles []*Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.Title, &a.URL, &a.Published, &a.Source, &a.Topic, &a.Summary, &a.Saved); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}

func (s *PostgresStore) AddSource(ctx context.Context, url, sourceType string) (bool, error) {
	query := `
		INSERT INTO sources (url, type) VALUES ($1, $2)
		ON CONFLICT (url) DO NOTHING;
	`
	tag, err := s.db.Exec(ctx, query, url, sourceType)
	if err != nil {
		return false, fmt.Errorf("failed to insert source: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) RemoveSource(ctx context.Context, url string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sources WHERE url = $1`, url)
	if err != nil {
		return false, fmt.Errorf("failed to delete source: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListSources(ctx context.Context) ([]*Source, error) {
	rows, err := s.db.Query(ctx, `SELECT url, COALESCE(type, ''), COALESCE(last_check, '') FROM sources ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.URL, &src.Type, &src.LastCheck); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, &src)
	}
	return sources, rows.Err()
}

func (s *PostgresStore) TouchSource(ctx context.Context, url string, when time.Time) error {
	_, err := s.db.Exec(ctx, `UPDATE sources SET last_check = $2 WHERE url = $1`,
		url, when.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to touch source: %w", err)
	}
	return nil
}

func (s *PostgresStore) UsageSeconds(ctx context.Context, day string) (float64, error) {
	var seconds float64
	err := s.db.QueryRow(ctx, `SELECT COALESCE((SELECT seconds FROM api_usage WHERE day = $1), 0)`, day).Scan(&seconds)
	if err != nil {
		return 0, fmt.Errorf("failed to read usage: %w", err)
	}
	return seconds, nil
}

// AddUsageSeconds increments the day's counter in a single statement so
// concurrent enrichment attempts cannot lose updates.
func (s *PostgresStore) AddUsageSeconds(ctx context.Context, day string, seconds float64) error {
	query := `
		INSERT INTO api_usage (day, seconds) VALUES ($1, $2)
		ON CONFLICT (day) DO UPDATE SET seconds = api_usage.seconds + EXCLUDED.seconds;
	`
	if _, err := s.db.Exec(ctx, query, day, seconds); err != nil {
		return fmt.Errorf("failed to update usage: %w", err)
	}
	return nil
}
