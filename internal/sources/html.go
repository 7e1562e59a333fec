package sources

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// minLinkTextLen filters out icon links, "more" links and other anchor
// noise on index pages.
const minLinkTextLen = 8

// HTMLAdapter extracts article links from a plain HTML page.
type HTMLAdapter struct {
	client *http.Client
}

func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{client: newHTTPClient()}
}

func (a *HTMLAdapter) Fetch(sourceURL string) []Candidate {
	resp, err := a.client.Get(sourceURL)
	if err != nil {
		log.Printf("[HTMLAdapter.Fetch] Failed to fetch %s: %v", sourceURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[HTMLAdapter.Fetch] Status %d for %s", resp.StatusCode, sourceURL)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("[HTMLAdapter.Fetch] Failed to parse %s: %v", sourceURL, err)
		return nil
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil
	}

	now := nowStamp()
	var items []Candidate
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if href == "" || utf8.RuneCountInString(title) < minLinkTextLen {
			return true
		}
		link := resolveHref(base, href)
		if link == "" {
			return true
		}
		items = append(items, Candidate{Title: title, URL: link, Date: now})
		return len(items) < maxCandidates
	})
	return items
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
