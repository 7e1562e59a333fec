package scraper

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// contentSelectors are tried in order; the first non-empty match wins.
// Falling back to the whole body is acceptable - this is best-effort
// extraction, bounded by selector luck.
var contentSelectors = []string{"article", "main", ".article-content", ".entry-content", ".post-content"}

type Scraper struct {
	client *http.Client
}

func NewScraper() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchExcerpt fetches the URL and extracts a plain-text excerpt of the
// page body, up to maxChars characters. It never fails: any network,
// status or parse problem yields "" and the caller moves on.
func (s *Scraper) FetchExcerpt(url string, maxChars int) string {
	if url == "" || maxChars <= 0 {
		return ""
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Scraper.FetchExcerpt] Fetch failed for %s: %v", url, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Scraper.FetchExcerpt] Status %d for %s", resp.StatusCode, url)
		return ""
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("[Scraper.FetchExcerpt] Parse failed for %s: %v", url, err)
		return ""
	}

	// Boilerplate first, then the main content.
	doc.Find("script, style, nav, footer, header, aside").Remove()

	var selection *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			selection = sel.First()
			break
		}
	}
	if selection == nil {
		selection = doc.Find("body")
	}
	if selection.Length() == 0 {
		return ""
	}

	// Collapse whitespace runs and line breaks into single spaces.
	text := strings.Join(strings.Fields(selection.Text()), " ")

	runes := []rune(text)
	if len(runes) > maxChars {
		runes = runes[:maxChars]
	}
	return string(runes)
}
