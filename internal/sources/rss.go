package sources

import (
	"log"
	"strings"

	"github.com/mmcdole/gofeed"
)

// RSSAdapter reads RSS/Atom feeds.
type RSSAdapter struct {
	parser *gofeed.Parser
}

func NewRSSAdapter() *RSSAdapter {
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient()
	return &RSSAdapter{parser: parser}
}

func (a *RSSAdapter) Fetch(sourceURL string) []Candidate {
	feed, err := a.parser.ParseURL(sourceURL)
	if err != nil {
		log.Printf("[RSSAdapter.Fetch] Failed to parse %s: %v", sourceURL, err)
		return nil
	}

	var items []Candidate
	for _, item := range feed.Items {
		if len(items) >= maxCandidates {
			break
		}
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}
		date := item.Published
		if date == "" {
			date = item.Updated
		}
		if date == "" {
			date = nowStamp()
		}
		items = append(items, Candidate{Title: title, URL: link, Date: date})
	}
	return items
}
