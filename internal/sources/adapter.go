package sources

import (
	"net/http"
	"strings"
	"time"
)

// maxCandidates bounds what a single source can contribute per run.
const maxCandidates = 20

// Candidate is an item proposed by an adapter before dedup and storage.
type Candidate struct {
	Title string
	URL   string
	Date  string
}

// Adapter fetches candidates from one source URL. Implementations never
// return an error: any retrieval or parse failure yields an empty list,
// gets logged inside the adapter, and the pipeline moves on.
type Adapter interface {
	Fetch(sourceURL string) []Candidate
}

// ForType returns the adapter for a stored source type. The match is on
// substring so detector outputs like "RSS", "rss+xml" or "api/json" all
// dispatch; anything unrecognized is treated as a plain HTML page.
func ForType(sourceType string) Adapter {
	t := strings.ToLower(sourceType)
	switch {
	case strings.Contains(t, "rss"):
		return NewRSSAdapter()
	case strings.Contains(t, "api"):
		return NewAPIAdapter()
	default:
		return NewHTMLAdapter()
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func nowStamp() string {
	return time.Now().Format(time.RFC3339)
}
