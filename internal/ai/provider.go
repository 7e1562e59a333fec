package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// QueryAnalysis is the structured reading of a free-text query used by
// the query-time re-ranker.
type QueryAnalysis struct {
	Topics       []string `json:"topics"`
	Keywords     []string `json:"keywords"`
	Intent       string   `json:"intent"`
	QueryRefined string   `json:"query_refined"`
}

// TrendingTopic is one theme the AI detected in the recent article
// stream, with the search queries it proposes for it.
type TrendingTopic struct {
	Topic      string   `json:"topic"`
	Importance int      `json:"importance"`
	Keywords   string   `json:"keywords"`
	Queries    []string `json:"queries"`
}

// Provider is the enrichment capability boundary. Implementations may
// be unavailable, slow or flaky; callers own the degradation policy.
type Provider interface {
	Name() string

	// Summarize produces a 2-3 sentence Greek summary of an article.
	Summarize(title, content string) (string, error)

	// CheckRelevance answers whether a search result is relevant to
	// the query.
	CheckRelevance(query, title, snippet string) (bool, error)

	// AnalyzeQuery classifies a query into topics and keywords.
	AnalyzeQuery(query string) (*QueryAnalysis, error)

	// TrendingTopics detects themes in a digest of recent articles and
	// proposes search queries for each.
	TrendingTopics(digest string) ([]TrendingTopic, error)

	// DiscoverQueries proposes fresh search queries for the energy
	// news domain.
	DiscoverQueries() ([]string, error)
}

// maxContentChars bounds what a single enrichment call may send.
const maxContentChars = 4000

func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) > maxContentChars {
		return string(runes[:maxContentChars])
	}
	return content
}

// parseTrendingTopics accepts either a bare JSON array or an object
// wrapping the array under "topics"; json_object mode forces the
// wrapped form but models drift.
func parseTrendingTopics(content string) ([]TrendingTopic, error) {
	content = strings.TrimSpace(content)

	var topics []TrendingTopic
	if err := json.Unmarshal([]byte(content), &topics); err == nil {
		return topics, nil
	}
	var wrapped struct {
		Topics []TrendingTopic `json:"topics"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse trending topics: %w", err)
	}
	return wrapped.Topics, nil
}

var queryPrefix = regexp.MustCompile(`^(\d+[.)]|[-•*])\s*`)

// parseQueryLines splits a one-query-per-line reply, stripping the
// numbering and bullets models add despite being told not to.
func parseQueryLines(content string, max int) []string {
	var queries []string
	for _, line := range strings.Split(content, "\n") {
		line = queryPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" {
			continue
		}
		queries = append(queries, line)
		if len(queries) >= max {
			break
		}
	}
	return queries
}
