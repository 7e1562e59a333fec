package sources

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dkaravias/enerwatch/internal/store"
)

var (
	ErrEmptyURL  = errors.New("source url cannot be empty")
	ErrBadScheme = errors.New("source url must start with http:// or https://")
	ErrExists    = errors.New("source already registered")
	ErrNotFound  = errors.New("source not found")
)

// Registry manages the set of registered sources. The source type is
// detected once here, at registration, and stored; pipeline runs
// dispatch on the stored value without re-sniffing.
type Registry struct {
	store  store.Store
	client *http.Client
}

func NewRegistry(st store.Store) *Registry {
	return &Registry{
		store:  st,
		client: &http.Client{Timeout: 8 * time.Second},
	}
}

// Add registers a source, sniffing its type first.
func (r *Registry) Add(ctx context.Context, rawURL string) (*store.Source, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return nil, ErrBadScheme
	}

	sourceType := r.DetectType(u)
	added, err := r.store.AddSource(ctx, u, sourceType)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrExists
	}
	log.Printf("[Registry.Add] Registered source %s (%s)", u, sourceType)
	return &store.Source{URL: u, Type: sourceType}, nil
}

func (r *Registry) Remove(ctx context.Context, rawURL string) error {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return ErrEmptyURL
	}
	removed, err := r.store.RemoveSource(ctx, u)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	log.Printf("[Registry.Remove] Removed source %s", u)
	return nil
}

func (r *Registry) List(ctx context.Context) ([]*store.Source, error) {
	return r.store.ListSources(ctx)
}

// DetectType sniffs the content type of a URL. It prefers response
// headers, falls back to peeking at the body, and returns "unknown"
// when the URL cannot be reached at all - an unknown source is still
// registrable and will be fetched as HTML.
func (r *Registry) DetectType(u string) string {
	resp, err := r.client.Get(u)
	if err != nil {
		log.Printf("[Registry.DetectType] Probe failed for %s: %v", u, err)
		return "unknown"
	}
	defer resp.Body.Close()

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	head := strings.ToLower(string(body))

	switch {
	case strings.Contains(ct, "xml") || strings.Contains(head, "<rss") || strings.Contains(head, "<feed"):
		return "RSS"
	case strings.Contains(ct, "application/json") || strings.Contains(strings.ToLower(u), "api"):
		return "API"
	case strings.Contains(head, "<html") || strings.Contains(ct, "text/html"):
		return "HTML"
	}
	return "unknown"
}
