package ai

import (
	"fmt"
	"log"
	"strings"
)

// MultiProvider tries each provider in order until one succeeds.
type MultiProvider struct {
	providers []Provider
}

func NewMultiProvider(providers ...Provider) *MultiProvider {
	if len(providers) == 0 {
		panic("at least one provider required")
	}
	return &MultiProvider{providers: providers}
}

func (m *MultiProvider) Name() string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name()
	}
	return "Multi[" + strings.Join(names, "+") + "]"
}

func (m *MultiProvider) Summarize(title, content string) (string, error) {
	for _, provider := range m.providers {
		summary, err := provider.Summarize(title, content)
		if err == nil {
			return summary, nil
		}
		log.Printf("[MultiProvider] %s failed for summary: %v", provider.Name(), err)
	}
	return "", fmt.Errorf("all providers failed for summary")
}

func (m *MultiProvider) CheckRelevance(query, title, snippet string) (bool, error) {
	for _, provider := range m.providers {
		relevant, err := provider.CheckRelevance(query, title, snippet)
		if err == nil {
			return relevant, nil
		}
		log.Printf("[MultiProvider] %s failed for relevance: %v", provider.Name(), err)
	}
	return false, fmt.Errorf("all providers failed for relevance")
}

func (m *MultiProvider) TrendingTopics(digest string) ([]TrendingTopic, error) {
	for _, provider := range m.providers {
		topics, err := provider.TrendingTopics(digest)
		if err == nil {
			return topics, nil
		}
		log.Printf("[MultiProvider] %s failed for trending topics: %v", provider.Name(), err)
	}
	return nil, fmt.Errorf("all providers failed for trending topics")
}

func (m *MultiProvider) DiscoverQueries() ([]string, error) {
	for _, provider := range m.providers {
		queries, err := provider.DiscoverQueries()
		if err == nil {
			return queries, nil
		}
		log.Printf("[MultiProvider] %s failed for query discovery: %v", provider.Name(), err)
	}
	return nil, fmt.Errorf("all providers failed for query discovery")
}

func (m *MultiProvider) AnalyzeQuery(query string) (*QueryAnalysis, error) {
	for _, provider := range m.providers {
		analysis, err := provider.AnalyzeQuery(query)
		if err == nil {
			return analysis, nil
		}
		log.Printf("[MultiProvider] %s failed for query analysis: %v", provider.Name(), err)
	}
	return nil, fmt.Errorf("all providers failed for query analysis")
}
