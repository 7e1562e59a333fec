package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dkaravias/enerwatch/internal/ai"
	"github.com/dkaravias/enerwatch/internal/search"
	"github.com/dkaravias/enerwatch/internal/store"
)

// countingSearchProvider answers every query with one fresh result so
// each executed query stores exactly one new article.
type countingSearchProvider struct {
	calls   int
	queries []string
}

func (p *countingSearchProvider) Name() string { return "counting" }

func (p *countingSearchProvider) SearchNews(query string, maxResults int) ([]search.Result, error) {
	p.calls++
	p.queries = append(p.queries, query)
	return []search.Result{{
		Title:   fmt.Sprintf("Αποτέλεσμα %d", p.calls),
		URL:     fmt.Sprintf("https://d.example/%d", p.calls),
		Snippet: "σ",
	}}, nil
}

func TestDiscoverRequiresProvider(t *testing.T) {
	registry := search.NewRegistry()
	registry.Register(&countingSearchProvider{})
	core := newTestSearch(store.NewMemoryStore(), registry, nil)

	_, err := core.Discover(context.Background(), 5)
	if !errors.Is(err, ErrNoAIProvider) {
		t.Fatalf("err = %v, want ErrNoAIProvider", err)
	}
}

func TestDiscoverCombinesTrendingAndGeneratedQueries(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.SaveArticleIfNew(ctx, &store.Article{Title: "Παλιό άρθρο", URL: "https://a/1", Summary: "σ"})

	provider := &fakeAI{
		trending: []ai.TrendingTopic{
			{Topic: "Επιδοτήσεις", Queries: []string{"q1", "q2", "q3"}},
			{Topic: "Μπαταρίες", Queries: []string{"q4"}},
		},
		queries: []string{"q5", "q6", "q7"},
	}
	searcher := &countingSearchProvider{}
	registry := search.NewRegistry()
	registry.Register(searcher)
	core := newTestSearch(st, registry, provider)

	result, err := core.Discover(ctx, 5)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// Two per trending topic (q1 q2 q4), then generated ones, capped at 5.
	want := []string{"q1", "q2", "q4", "q5", "q6"}
	if len(searcher.queries) != len(want) {
		t.Fatalf("ran %v, want %v", searcher.queries, want)
	}
	for i, q := range want {
		if searcher.queries[i] != q {
			t.Errorf("query %d = %q, want %q", i, searcher.queries[i], q)
		}
	}
	if result.NewArticles != 5 {
		t.Errorf("NewArticles = %d, want 5", result.NewArticles)
	}
	if len(result.TrendingTopics) != 2 || len(result.NewQueries) != 3 {
		t.Errorf("result = %+v", result)
	}
}

func TestDiscoverSurvivesTrendingFailure(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.SaveArticleIfNew(ctx, &store.Article{Title: "Άρθρο", URL: "https://a/1"})

	provider := &fakeAI{
		trendingErr: errors.New("model overloaded"),
		queries:     []string{"q1", "q2"},
	}
	searcher := &countingSearchProvider{}
	registry := search.NewRegistry()
	registry.Register(searcher)
	core := newTestSearch(st, registry, provider)

	result, err := core.Discover(ctx, 5)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if searcher.calls != 2 {
		t.Errorf("searches = %d, want the generated queries to still run", searcher.calls)
	}
	if result.NewArticles != 2 {
		t.Errorf("NewArticles = %d, want 2", result.NewArticles)
	}
}

func TestDiscoverDeduplicatesQueries(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.SaveArticleIfNew(ctx, &store.Article{Title: "Άρθρο", URL: "https://a/1"})

	provider := &fakeAI{
		trending: []ai.TrendingTopic{{Topic: "Φωτοβολταϊκά", Queries: []string{"ίδιο query"}}},
		queries:  []string{"ίδιο query", "άλλο query"},
	}
	searcher := &countingSearchProvider{}
	registry := search.NewRegistry()
	registry.Register(searcher)
	core := newTestSearch(st, registry, provider)

	if _, err := core.Discover(ctx, 5); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if searcher.calls != 2 {
		t.Errorf("searches = %d, want duplicate query collapsed", searcher.calls)
	}
}
