package core

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/dkaravias/enerwatch/internal/ai"
	"github.com/dkaravias/enerwatch/internal/classify"
	"github.com/dkaravias/enerwatch/internal/store"
)

const (
	topicMatchScore     = 10
	titleKeywordScore   = 5
	summaryKeywordScore = 2
)

// RankedArticle pairs a stored article with its relevance score for a
// particular query.
type RankedArticle struct {
	*store.Article
	Score int `json:"score"`
}

// RankCore re-orders stored articles against a free-text query. The AI
// provider expands the query into topics and keywords; without one the
// keyword classifier stands in.
type RankCore struct {
	store    store.Store
	provider ai.Provider // nil means keyword-only analysis
	limit    int
}

func NewRankCore(st store.Store, provider ai.Provider) *RankCore {
	return &RankCore{store: st, provider: provider, limit: 200}
}

// Rank scans recent articles and returns the ones scoring above zero,
// highest first. Ties keep store order, which is recency.
func (c *RankCore) Rank(ctx context.Context, query string) ([]RankedArticle, error) {
	analysis := c.analyze(query)

	articles, err := c.store.RecentArticles(ctx, c.limit)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedArticle, 0, len(articles))
	for _, a := range articles {
		score := scoreArticle(a, analysis)
		if score > 0 {
			ranked = append(ranked, RankedArticle{Article: a, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	log.Printf("[RankCore.Rank] Query %q matched %d of %d articles", query, len(ranked), len(articles))
	return ranked, nil
}

// analyze asks the AI provider for topics and keywords. Any failure
// falls back to the keyword classifier so ranking always works.
func (c *RankCore) analyze(query string) *ai.QueryAnalysis {
	if c.provider != nil {
		analysis, err := c.provider.AnalyzeQuery(query)
		if err == nil && analysis != nil {
			return analysis
		}
		if err != nil {
			log.Printf("[RankCore.analyze] AI analysis failed, using keyword fallback: %v", err)
		}
	}

	analysis := &ai.QueryAnalysis{Keywords: []string{strings.ToLower(query)}, Intent: "search"}
	if topic := classify.ClassifyQuery(query); topic != "" {
		analysis.Topics = []string{topic}
	}
	return analysis
}

func scoreArticle(a *store.Article, analysis *ai.QueryAnalysis) int {
	score := 0
	for _, topic := range analysis.Topics {
		if a.Topic == topic {
			score += topicMatchScore
		}
	}
	title := strings.ToLower(a.Title)
	summary := strings.ToLower(a.Summary)
	for _, kw := range analysis.Keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) {
			score += titleKeywordScore
		}
		if strings.Contains(summary, kw) {
			score += summaryKeywordScore
		}
	}
	return score
}
