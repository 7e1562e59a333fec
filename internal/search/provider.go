package search

// Result is a search hit from any provider. Transient: results are
// merged and filtered before anything is persisted.
type Result struct {
	Title    string
	URL      string
	Snippet  string
	Date     string
	Provider string
}

// Provider is the interface all search providers must implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "tavily", "duckduckgo")
	Name() string

	// SearchNews searches for news articles
	SearchNews(query string, maxResults int) ([]Result, error)
}
