package duckduckgo

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dkaravias/enerwatch/internal/search"
)

const baseURL = "https://html.duckduckgo.com/html/"

// Client scrapes the DuckDuckGo HTML endpoint. It needs no API key and
// blocks far less aggressively than Google, which is why it sits first
// in the provider order when no paid provider is configured.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string {
	return "duckduckgo"
}

// SearchNews implements the search.Provider interface
func (c *Client) SearchNews(query string, maxResults int) ([]search.Result, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	reqURL := c.baseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	log.Printf("[DuckDuckGo] Searching for: %q", query)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	var results []search.Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		titleSel := sel.Find("a.result__a").First()
		title := strings.TrimSpace(titleSel.Text())
		link, _ := titleSel.Attr("href")
		snippet := strings.TrimSpace(sel.Find("a.result__snippet").First().Text())

		if title == "" || link == "" {
			return true
		}
		results = append(results, search.Result{
			Title:    title,
			URL:      link,
			Snippet:  snippet,
			Date:     now,
			Provider: "duckduckgo",
		})
		return len(results) < maxResults
	})

	log.Printf("[DuckDuckGo] Found %d results for query: %s", len(results), query)
	return results, nil
}
