package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used in tests and local runs
// without a database. It applies the same invariants as PostgresStore:
// URL uniqueness and silent rejection of empty title/URL.
type MemoryStore struct {
	mu       sync.Mutex
	articles []*Article
	byURL    map[string]*Article
	sources  []*Source
	usage    map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byURL: make(map[string]*Article),
		usage: make(map[string]float64),
	}
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) SaveArticleIfNew(ctx context.Context, a *Article) (bool, error) {
	if a == nil || a.URL == "" || a.Title == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byURL[a.URL]; ok {
		return false, nil
	}
	clone := *a
	s.articles = append(s.articles, &clone)
	s.byURL[clone.URL] = &clone
	return true, nil
}

func (s *MemoryStore) ArticleExists(ctx context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byURL[url]
	return ok, nil
}

func (s *MemoryStore) MarkSaved(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byURL[url]; ok {
		a.Saved = true
	}
	return nil
}

func (s *MemoryStore) RecentArticles(ctx context.Context, limit int) ([]*Article, error) {
	if limit <= 0 {
		limit = 200
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Article, 0, len(s.articles))
	for _, a := range s.articles {
		clone := *a
		out = append(out, &clone)
	}
	// Published descending, insertion order on ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published > out[j].Published
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) SavedArticles(ctx context.Context) ([]*Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Article
	for _, a := range s.articles {
		if a.Saved {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published > out[j].Published
	})
	return out, nil
}

func (s *MemoryStore) AddSource(ctx context.Context, url, sourceType string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.URL == url {
			return false, nil
		}
	}
	s.sources = append(s.sources, &Source{URL: url, Type: sourceType})
	return true, nil
}

func (s *MemoryStore) RemoveSource(ctx context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, src := range s.sources {
		if src.URL == url {
			s.sources = append(s.sources[:i], s.sources[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListSources(ctx context.Context) ([]*Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Source, 0, len(s.sources))
	for _, src := range s.sources {
		clone := *src
		out = append(out, &clone)
	}
	return out, nil
}

func (s *MemoryStore) TouchSource(ctx context.Context, url string, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.URL == url {
			src.LastCheck = when.Format(time.RFC3339)
		}
	}
	return nil
}

func (s *MemoryStore) UsageSeconds(ctx context.Context, day string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage[day], nil
}

func (s *MemoryStore) AddUsageSeconds(ctx context.Context, day string, seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[day] += seconds
	return nil
}
