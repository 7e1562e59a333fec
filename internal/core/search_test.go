package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dkaravias/enerwatch/internal/ai"
	"github.com/dkaravias/enerwatch/internal/classify"
	"github.com/dkaravias/enerwatch/internal/quota"
	"github.com/dkaravias/enerwatch/internal/scraper"
	"github.com/dkaravias/enerwatch/internal/search"
	"github.com/dkaravias/enerwatch/internal/store"
)

type fakeSearchProvider struct {
	name      string
	results   []search.Result
	err       error
	calls     int
	requested []int
}

func (f *fakeSearchProvider) Name() string { return f.name }

func (f *fakeSearchProvider) SearchNews(query string, maxResults int) ([]search.Result, error) {
	f.calls++
	f.requested = append(f.requested, maxResults)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > maxResults {
		return f.results[:maxResults], nil
	}
	return f.results, nil
}

// failingStore simulates a store that has gone away entirely.
type failingStore struct {
	*store.MemoryStore
}

func (s *failingStore) SaveArticleIfNew(ctx context.Context, a *store.Article) (bool, error) {
	return false, errors.New("connection refused")
}

// fakeAI lets each test script the provider calls.
type fakeAI struct {
	relevant     func(query, title, snippet string) (bool, error)
	analysis     *ai.QueryAnalysis
	analysisErr  error
	summary      string
	summaryErr   error
	summaryCalls int
	trending     []ai.TrendingTopic
	trendingErr  error
	queries      []string
	queriesErr   error
}

func (f *fakeAI) Name() string { return "fake" }

func (f *fakeAI) Summarize(title, content string) (string, error) {
	f.summaryCalls++
	return f.summary, f.summaryErr
}

func (f *fakeAI) CheckRelevance(query, title, snippet string) (bool, error) {
	if f.relevant == nil {
		return true, nil
	}
	return f.relevant(query, title, snippet)
}

func (f *fakeAI) AnalyzeQuery(query string) (*ai.QueryAnalysis, error) {
	return f.analysis, f.analysisErr
}

func (f *fakeAI) TrendingTopics(digest string) ([]ai.TrendingTopic, error) {
	return f.trending, f.trendingErr
}

func (f *fakeAI) DiscoverQueries() ([]string, error) {
	return f.queries, f.queriesErr
}

func nResults(prefix string, n int) []search.Result {
	results := make([]search.Result, n)
	for i := range results {
		results[i] = search.Result{
			Title:   fmt.Sprintf("%s αποτέλεσμα %d", prefix, i),
			URL:     fmt.Sprintf("https://%s.example/%d", prefix, i),
			Snippet: "απόσπασμα",
		}
	}
	return results
}

func newTestSearch(st store.Store, registry *search.Registry, provider ai.Provider) *SearchCore {
	enricher := quota.NewEnricher(provider, quota.NewTracker(st, quota.DefaultDailyBudgetSeconds))
	core := NewSearchCore(st, registry, scraper.NewScraper(), enricher, provider, false, 2000)
	core.providerPause = 0
	core.filterPause = 0
	return core
}

func TestSearchFallsBackWhenPrimaryIsThin(t *testing.T) {
	primary := &fakeSearchProvider{name: "primary", results: nResults("a", 2)}
	secondary := &fakeSearchProvider{name: "secondary", results: nResults("b", 4)}
	registry := search.NewRegistry()
	registry.Register(primary)
	registry.Register(secondary)

	st := store.NewMemoryStore()
	core := newTestSearch(st, registry, nil)

	saved, err := core.Search(context.Background(), "φωτοβολταϊκά", 10, false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if secondary.calls != 1 {
		t.Errorf("secondary provider calls = %d, want 1", secondary.calls)
	}
	if saved != 6 {
		t.Errorf("saved = %d, want 6", saved)
	}
	// The primary is asked for double the wanted count, fallbacks only
	// for the plain count.
	if len(primary.requested) != 1 || primary.requested[0] != 20 {
		t.Errorf("primary requested = %v, want [20]", primary.requested)
	}
	if len(secondary.requested) != 1 || secondary.requested[0] != 10 {
		t.Errorf("secondary requested = %v, want [10]", secondary.requested)
	}
}

func TestSearchSurfacesStoreFailure(t *testing.T) {
	primary := &fakeSearchProvider{name: "primary", results: nResults("a", 3)}
	registry := search.NewRegistry()
	registry.Register(primary)

	st := &failingStore{MemoryStore: store.NewMemoryStore()}
	core := newTestSearch(st, registry, nil)

	if _, err := core.Search(context.Background(), "φωτοβολταϊκά", 10, false); err == nil {
		t.Fatal("expected an error when the store is unavailable")
	}
}

func TestSearchSkipsFallbackWhenPrimarySufficient(t *testing.T) {
	primary := &fakeSearchProvider{name: "primary", results: nResults("a", 6)}
	secondary := &fakeSearchProvider{name: "secondary", results: nResults("b", 4)}
	registry := search.NewRegistry()
	registry.Register(primary)
	registry.Register(secondary)

	core := newTestSearch(store.NewMemoryStore(), registry, nil)
	if _, err := core.Search(context.Background(), "μπαταρίες", 10, false); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary provider calls = %d, want 0", secondary.calls)
	}
}

func TestSearchProviderErrorFallsThrough(t *testing.T) {
	primary := &fakeSearchProvider{name: "primary", err: errors.New("quota exceeded")}
	secondary := &fakeSearchProvider{name: "secondary", results: nResults("b", 3)}
	registry := search.NewRegistry()
	registry.Register(primary)
	registry.Register(secondary)

	core := newTestSearch(store.NewMemoryStore(), registry, nil)
	saved, err := core.Search(context.Background(), "αντλίες", 10, false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if saved != 3 {
		t.Errorf("saved = %d, want 3", saved)
	}
}

func TestRelevanceFilterDropsOffTopicResults(t *testing.T) {
	primary := &fakeSearchProvider{name: "primary", results: []search.Result{
		{Title: "Τιμές φωτοβολταϊκών 2026", URL: "https://a/1", Snippet: "σχετικό"},
		{Title: "Συνταγές μαγειρικής", URL: "https://a/2", Snippet: "άσχετο"},
	}}
	registry := search.NewRegistry()
	registry.Register(primary)

	provider := &fakeAI{relevant: func(query, title, snippet string) (bool, error) {
		return strings.Contains(title, "φωτοβολταϊκ"), nil
	}}
	st := store.NewMemoryStore()
	core := newTestSearch(st, registry, provider)

	saved, err := core.Search(context.Background(), "φωτοβολταϊκά", 10, true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if saved != 1 {
		t.Fatalf("saved = %d, want 1", saved)
	}
	exists, _ := st.ArticleExists(context.Background(), "https://a/2")
	if exists {
		t.Error("off-topic result was persisted")
	}
}

func TestRelevanceFilterFailsOpen(t *testing.T) {
	primary := &fakeSearchProvider{name: "primary", results: nResults("a", 3)}
	registry := search.NewRegistry()
	registry.Register(primary)

	provider := &fakeAI{relevant: func(query, title, snippet string) (bool, error) {
		return false, errors.New("model overloaded")
	}}
	core := newTestSearch(store.NewMemoryStore(), registry, provider)

	saved, err := core.Search(context.Background(), "επιδοτήσεις", 10, true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if saved != 3 {
		t.Errorf("saved = %d, want all 3 kept on filter failure", saved)
	}
}

func TestSearchSnippetFallbackSummaryAndSourceLabel(t *testing.T) {
	primary := &fakeSearchProvider{name: "primary", results: []search.Result{
		{Title: "Νέα επιδότηση", URL: "https://a/1", Snippet: "το απόσπασμα της μηχανής"},
	}}
	registry := search.NewRegistry()
	registry.Register(primary)

	st := store.NewMemoryStore()
	core := newTestSearch(st, registry, nil) // no AI: enrichment yields ""

	if _, err := core.Search(context.Background(), "επιδότηση", 5, false); err != nil {
		t.Fatalf("Search: %v", err)
	}
	articles, _ := st.RecentArticles(context.Background(), 10)
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Summary != "το απόσπασμα της μηχανής" {
		t.Errorf("Summary = %q, want the provider snippet", articles[0].Summary)
	}
	if articles[0].Source != "search:επιδότηση" {
		t.Errorf("Source = %q", articles[0].Source)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	core := newTestSearch(store.NewMemoryStore(), search.NewRegistry(), nil)
	if _, err := core.Search(context.Background(), "", 5, false); err == nil {
		t.Fatal("expected an error for an empty query")
	}
}

func TestSearchByTopicsDeduplicatesAcrossQueries(t *testing.T) {
	// Every query returns the same hit; it must be stored once.
	primary := &fakeSearchProvider{name: "primary", results: []search.Result{
		{Title: "Φωτοβολταϊκά στις στέγες", URL: "https://a/same", Snippet: "σ"},
	}}
	registry := search.NewRegistry()
	registry.Register(primary)

	st := store.NewMemoryStore()
	core := newTestSearch(st, registry, nil)

	total, perTopic, err := core.SearchByTopics(context.Background(), []string{classify.TopicSolar}, 5)
	if err != nil {
		t.Fatalf("SearchByTopics: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	if perTopic[classify.TopicSolar] != 1 {
		t.Errorf("perTopic = %v", perTopic)
	}
	if primary.calls < 2 {
		t.Errorf("provider calls = %d, want one per query", primary.calls)
	}

	articles, _ := st.RecentArticles(context.Background(), 10)
	if len(articles) != 1 {
		t.Fatalf("expected 1 stored article, got %d", len(articles))
	}
	if articles[0].Topic != classify.TopicSolar {
		t.Errorf("Topic = %q, want the searched topic", articles[0].Topic)
	}
	if articles[0].Source != "search:"+classify.TopicSolar {
		t.Errorf("Source = %q", articles[0].Source)
	}
}

func TestSearchByTopicsDefaultsToAllTopics(t *testing.T) {
	primary := &fakeSearchProvider{name: "primary"}
	registry := search.NewRegistry()
	registry.Register(primary)

	core := newTestSearch(store.NewMemoryStore(), registry, nil)
	_, perTopic, err := core.SearchByTopics(context.Background(), nil, 5)
	if err != nil {
		t.Fatalf("SearchByTopics: %v", err)
	}
	if len(perTopic) != len(classify.SearchTopics()) {
		t.Errorf("covered %d topics, want %d", len(perTopic), len(classify.SearchTopics()))
	}
}
