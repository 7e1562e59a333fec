package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dkaravias/enerwatch/internal/ai"
	"github.com/dkaravias/enerwatch/internal/classify"
	"github.com/dkaravias/enerwatch/internal/quota"
	"github.com/dkaravias/enerwatch/internal/scraper"
	"github.com/dkaravias/enerwatch/internal/search"
	"github.com/dkaravias/enerwatch/internal/store"
)

// minPrimaryResults is the raw-result count under which the next
// provider in priority order is also consulted.
const minPrimaryResults = 5

// queriesPerTopic bounds how many of a topic's search queries a batch
// pass runs.
const queriesPerTopic = 3

// SearchCore is the on-demand entry point: multi-provider web search,
// duplicate collapsing, optional AI relevance filtering, persistence.
type SearchCore struct {
	store    store.Store
	registry *search.Registry
	scraper  *scraper.Scraper
	enricher *quota.Enricher
	provider ai.Provider // nil disables the relevance filter

	fetchContent bool
	excerptChars int

	// Minimum spacing between provider calls and between keyword runs.
	// Politeness towards the engines, not a performance knob.
	providerPause time.Duration
	filterPause   time.Duration
}

func NewSearchCore(st store.Store, registry *search.Registry, sc *scraper.Scraper, enricher *quota.Enricher, provider ai.Provider, fetchContent bool, excerptChars int) *SearchCore {
	if excerptChars <= 0 {
		excerptChars = 2000
	}
	return &SearchCore{
		store:         st,
		registry:      registry,
		scraper:       sc,
		enricher:      enricher,
		provider:      provider,
		fetchContent:  fetchContent,
		excerptChars:  excerptChars,
		providerPause: time.Second,
		filterPause:   200 * time.Millisecond,
	}
}

// Search runs an on-demand web search and stores the surviving results.
// Returns the count of genuinely new articles.
func (c *SearchCore) Search(ctx context.Context, query string, maxResults int, useAIFilter bool) (int, error) {
	if query == "" {
		return 0, fmt.Errorf("query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	results := c.searchWeb(query, maxResults, useAIFilter)
	if len(results) == 0 {
		log.Printf("[SearchCore.Search] No results for %q", query)
		return 0, nil
	}
	return c.persist(ctx, results, "search:"+query, "")
}

// searchWeb queries providers in priority order. The first provider is
// asked for double the wanted count to leave room for filtering; later
// providers are consulted only while the raw set stays under
// minPrimaryResults, and asked for the plain count.
func (c *SearchCore) searchWeb(query string, maxResults int, useAIFilter bool) []search.Result {
	providers := c.registry.All()
	if len(providers) == 0 {
		log.Printf("[SearchCore.searchWeb] No search providers configured")
		return nil
	}

	var results []search.Result
	for i, provider := range providers {
		want := maxResults * 2
		if i > 0 {
			if len(results) >= minPrimaryResults {
				break
			}
			want = maxResults
			time.Sleep(c.providerPause)
			log.Printf("[SearchCore.searchWeb] Only %d raw results, falling back to %s", len(results), provider.Name())
		}
		found, err := provider.SearchNews(query, want)
		if err != nil {
			log.Printf("[SearchCore.searchWeb] %s failed for %q: %v", provider.Name(), query, err)
			continue
		}
		results = append(results, found...)
	}

	if useAIFilter && c.provider != nil && len(results) > 0 {
		results = c.filterRelevant(query, results)
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// filterRelevant keeps the results the AI judges relevant to the query.
// Per-item failures keep the item: one bad call must not erase a valid
// result set, so the filter fails open.
func (c *SearchCore) filterRelevant(query string, results []search.Result) []search.Result {
	filtered := make([]search.Result, 0, len(results))
	for i, r := range results {
		if i > 0 {
			time.Sleep(c.filterPause)
		}
		relevant, err := c.provider.CheckRelevance(query, r.Title, r.Snippet)
		if err != nil {
			log.Printf("[SearchCore.filterRelevant] Check failed for %s, keeping: %v", r.URL, err)
			filtered = append(filtered, r)
			continue
		}
		if relevant {
			filtered = append(filtered, r)
		}
	}
	log.Printf("[SearchCore.filterRelevant] %d of %d results kept for %q", len(filtered), len(results), query)
	return filtered
}

// SearchByTopics runs the topic-driven batch search. Empty topics means
// all searchable topics. Returns the total new-article count and the
// per-topic breakdown.
func (c *SearchCore) SearchByTopics(ctx context.Context, topics []string, maxPerTopic int) (int, map[string]int, error) {
	if len(topics) == 0 {
		topics = classify.SearchTopics()
	}
	if maxPerTopic <= 0 {
		maxPerTopic = 5
	}

	totalNew := 0
	perTopic := make(map[string]int)
	for _, topic := range topics {
		queries, ok := classify.SearchQueries[topic]
		if !ok {
			log.Printf("[SearchCore.SearchByTopics] Unknown topic %q, skipping", topic)
			continue
		}
		if len(queries) > queriesPerTopic {
			queries = queries[:queriesPerTopic]
		}

		var collected []search.Result
		for i, query := range queries {
			if i > 0 {
				time.Sleep(c.providerPause)
			}
			collected = append(collected, c.searchWeb(query, 3, true)...)
		}

		unique := dedupeByURL(collected)
		if len(unique) > maxPerTopic {
			unique = unique[:maxPerTopic]
		}

		saved, err := c.persist(ctx, unique, "search:"+topic, topic)
		if err != nil {
			return totalNew, perTopic, err
		}
		perTopic[topic] = saved
		totalNew += saved
		log.Printf("[SearchCore.SearchByTopics] Topic %s: %d unique results, %d new", topic, len(unique), saved)
	}
	return totalNew, perTopic, nil
}

func dedupeByURL(results []search.Result) []search.Result {
	seen := make(map[string]bool, len(results))
	unique := make([]search.Result, 0, len(results))
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		unique = append(unique, r)
	}
	return unique
}

// persist stores surviving results as articles, enriching each with an
// excerpt-based summary and falling back to the provider snippet when
// enrichment yields nothing.
func (c *SearchCore) persist(ctx context.Context, results []search.Result, sourceLabel, topic string) (int, error) {
	saved := 0
	for _, r := range results {
		if r.Title == "" || r.URL == "" {
			continue
		}

		excerpt := ""
		if c.fetchContent {
			excerpt = c.scraper.FetchExcerpt(r.URL, c.excerptChars)
		}
		content := excerpt
		if content == "" {
			content = r.Snippet
		}
		summary := c.enricher.Summarize(ctx, r.Title, content)
		if summary == "" {
			summary = r.Snippet
		}

		articleTopic := topic
		if articleTopic == "" {
			articleTopic = classify.Classify(r.Title)
		}

		date := r.Date
		if date == "" {
			date = time.Now().Format(time.RFC3339)
		}

		isNew, err := c.store.SaveArticleIfNew(ctx, &store.Article{
			Title:     r.Title,
			URL:       r.URL,
			Published: date,
			Source:    sourceLabel,
			Topic:     articleTopic,
			Summary:   summary,
		})
		if err != nil {
			// A write error means the store itself is down; duplicates
			// never error, they come back as not-new.
			return saved, fmt.Errorf("failed to save %s: %w", r.URL, err)
		}
		if isNew {
			saved++
		}
	}
	return saved, nil
}
