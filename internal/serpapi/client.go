package serpapi

import (
	"fmt"
	"log"

	g "github.com/serpapi/google-search-results-golang"

	"github.com/dkaravias/enerwatch/internal/search"
)

// Client wraps the SerpApi search service as a search.Provider.
type Client struct {
	apiKey string
}

func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey}
}

func (c *Client) Name() string {
	return "serpapi"
}

// SearchNews performs a Greek Google search via SerpApi and maps the
// organic results.
func (c *Client) SearchNews(query string, maxResults int) ([]search.Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("SerpApi API key is not set")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	parameter := map[string]string{
		"engine":        "google",
		"q":             query,
		"google_domain": "google.gr",
		"gl":            "gr",
		"hl":            "el",
		"num":           fmt.Sprintf("%d", maxResults),
	}

	log.Printf("[SerpApi] Searching for: %q", query)
	s := g.NewGoogleSearch(parameter, c.apiKey)
	results, err := s.GetJSON()
	if err != nil {
		return nil, fmt.Errorf("serpapi search failed: %w", err)
	}

	organicResults, ok := results["organic_results"].([]interface{})
	if !ok {
		log.Printf("[SerpApi] No organic_results found in response")
		return nil, nil
	}

	var out []search.Result
	for _, item := range organicResults {
		if len(out) >= maxResults {
			break
		}
		res, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		title, _ := res["title"].(string)
		link, _ := res["link"].(string)
		snippet, _ := res["snippet"].(string)
		date, _ := res["date"].(string)

		if title == "" || link == "" {
			continue
		}

		out = append(out, search.Result{
			Title:    title,
			URL:      link,
			Snippet:  snippet,
			Date:     date,
			Provider: "serpapi",
		})
	}

	log.Printf("[SerpApi] Found %d organic results", len(out))
	return out, nil
}
