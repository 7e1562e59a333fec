package store

import (
	"context"
	"time"
)

// Article is a stored news item. URL is the identity: the store never
// holds two articles with the same URL.
type Article struct {
	Title     string
	URL       string
	Published string // RFC3339 where the source provided one, opaque otherwise
	Source    string
	Topic     string
	Summary   string
	Saved     bool
}

// Source is a registered news source. Type is detected once at
// registration time ("RSS", "HTML", "API" or "unknown").
type Source struct {
	URL       string
	Type      string
	LastCheck string
}

// Store is the persistence contract for articles, sources and the
// daily AI usage counter.
type Store interface {
	// Articles
	SaveArticleIfNew(ctx context.Context, a *Article) (bool, error)
	ArticleExists(ctx context.Context, url string) (bool, error)
	MarkSaved(ctx context.Context, url string) error
	RecentArticles(ctx context.Context, limit int) ([]*Article, error)
	SavedArticles(ctx context.Context) ([]*Article, error)

	// Sources
	AddSource(ctx context.Context, url, sourceType string) (bool, error)
	RemoveSource(ctx context.Context, url string) (bool, error)
	ListSources(ctx context.Context) ([]*Source, error)
	TouchSource(ctx context.Context, url string, when time.Time) error

	// AI usage, keyed by calendar day ("2006-01-02"). Days without a
	// row read as zero, which is how the day rollover works.
	UsageSeconds(ctx context.Context, day string) (float64, error)
	AddUsageSeconds(ctx context.Context, day string, seconds float64) error

	Close()
}
