package sources

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIAdapter reads JSON endpoints. It accepts either a top-level array
// or an object carrying the array under "results" or "data"; a single
// object under those keys is treated as a one-element list.
type APIAdapter struct {
	client *http.Client
}

func NewAPIAdapter() *APIAdapter {
	return &APIAdapter{client: newHTTPClient()}
}

func (a *APIAdapter) Fetch(sourceURL string) []Candidate {
	resp, err := a.client.Get(sourceURL)
	if err != nil {
		log.Printf("[APIAdapter.Fetch] Failed to fetch %s: %v", sourceURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[APIAdapter.Fetch] Status %d for %s", resp.StatusCode, sourceURL)
		return nil
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[APIAdapter.Fetch] Failed to decode %s: %v", sourceURL, err)
		return nil
	}

	var seq []any
	switch v := payload.(type) {
	case []any:
		seq = v
	case map[string]any:
		inner := v["results"]
		if inner == nil {
			inner = v["data"]
		}
		switch iv := inner.(type) {
		case []any:
			seq = iv
		case map[string]any:
			seq = []any{iv}
		}
	}

	var items []Candidate
	for _, raw := range seq {
		if len(items) >= maxCandidates {
			break
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		title := firstString(obj, "title", "name", "subject")
		if title == "" {
			continue
		}
		if runes := []rune(title); len(runes) > 200 {
			title = string(runes[:200])
		}
		date := firstString(obj, "date", "updated_at", "published_at")
		if date == "" {
			date = nowStamp()
		}
		items = append(items, Candidate{
			Title: title,
			URL:   firstString(obj, "url", "link"),
			Date:  date,
		})
	}
	return items
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
