package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dkaravias/enerwatch/internal/ai"
	"github.com/dkaravias/enerwatch/internal/store"
)

// ErrNoAIProvider is returned by Discover when no AI credential is
// configured; the other pipelines degrade without AI, discovery is
// meaningless without it.
var ErrNoAIProvider = errors.New("no AI provider configured")

// Discovery knobs. The digest feeds the trending analysis; trending
// topics contribute a couple of queries each before the freshly
// generated ones fill the rest of the run.
const (
	discoverDigestArticles = 30
	discoverRecentWindow   = 50
	discoverTrendingTopics = 3
	discoverQueriesPerTop  = 2
	discoverResultsPerRun  = 5
)

// DiscoveryResult summarizes one discovery pass.
type DiscoveryResult struct {
	TrendingTopics []ai.TrendingTopic `json:"trending_topics"`
	NewQueries     []string           `json:"new_queries"`
	NewArticles    int                `json:"new_articles"`
}

// Discover runs the AI-driven batch search: it mines recent stored
// articles for trending themes, asks the AI for fresh queries, and runs
// the combined query list through the normal search-and-persist path.
// Both AI stages degrade to empty lists on failure; a pass with no
// usable queries simply finds nothing.
func (c *SearchCore) Discover(ctx context.Context, maxQueries int) (*DiscoveryResult, error) {
	if c.provider == nil {
		return nil, ErrNoAIProvider
	}
	if maxQueries <= 0 {
		maxQueries = 5
	}

	recent, err := c.store.RecentArticles(ctx, discoverRecentWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent articles: %w", err)
	}

	result := &DiscoveryResult{}
	if len(recent) > 0 {
		topics, err := c.provider.TrendingTopics(articleDigest(recent))
		if err != nil {
			log.Printf("[SearchCore.Discover] Trending analysis failed: %v", err)
		} else {
			result.TrendingTopics = topics
			log.Printf("[SearchCore.Discover] Found %d trending topics", len(topics))
		}
	}

	queries, err := c.provider.DiscoverQueries()
	if err != nil {
		log.Printf("[SearchCore.Discover] Query discovery failed: %v", err)
	} else {
		result.NewQueries = queries
	}

	combined := combineQueries(result.TrendingTopics, result.NewQueries, maxQueries)
	log.Printf("[SearchCore.Discover] Running %d queries", len(combined))

	for i, query := range combined {
		if i > 0 {
			time.Sleep(c.providerPause)
		}
		found := c.searchWeb(query, discoverResultsPerRun, true)
		saved, err := c.persist(ctx, found, "search:"+query, "")
		if err != nil {
			return result, err
		}
		result.NewArticles += saved
	}

	log.Printf("[SearchCore.Discover] Done, %d new articles from %d queries", result.NewArticles, len(combined))
	return result, nil
}

// articleDigest renders recent articles as the compact list the
// trending prompt expects.
func articleDigest(articles []*store.Article) string {
	if len(articles) > discoverDigestArticles {
		articles = articles[:discoverDigestArticles]
	}
	var b strings.Builder
	for _, a := range articles {
		summary := a.Summary
		if runes := []rune(summary); len(runes) > 100 {
			summary = string(runes[:100])
		}
		fmt.Fprintf(&b, "- %s: %s\n", a.Title, summary)
	}
	return b.String()
}

// combineQueries takes a couple of queries from each leading trending
// topic, tops up with the AI-generated ones, and bounds the run.
func combineQueries(topics []ai.TrendingTopic, newQueries []string, max int) []string {
	var combined []string
	seen := make(map[string]bool)
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		combined = append(combined, q)
	}

	for i, topic := range topics {
		if i >= discoverTrendingTopics {
			break
		}
		queries := topic.Queries
		if len(queries) > discoverQueriesPerTop {
			queries = queries[:discoverQueriesPerTop]
		}
		for _, q := range queries {
			add(q)
		}
	}
	for _, q := range newQueries {
		add(q)
	}

	if len(combined) > max {
		combined = combined[:max]
	}
	return combined
}
