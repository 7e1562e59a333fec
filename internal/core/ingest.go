package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dkaravias/enerwatch/internal/classify"
	"github.com/dkaravias/enerwatch/internal/quota"
	"github.com/dkaravias/enerwatch/internal/scraper"
	"github.com/dkaravias/enerwatch/internal/sources"
	"github.com/dkaravias/enerwatch/internal/store"
)

// IngestionCore runs the scheduled/batch collection pass over every
// registered source. One broken source or candidate never aborts the
// run; only the store being unavailable does.
type IngestionCore struct {
	store        store.Store
	scraper      *scraper.Scraper
	enricher     *quota.Enricher
	fetchContent bool
	excerptChars int

	// adapterFor is swappable in tests.
	adapterFor func(sourceType string) sources.Adapter
}

func NewIngestionCore(st store.Store, sc *scraper.Scraper, enricher *quota.Enricher, fetchContent bool, excerptChars int) *IngestionCore {
	if excerptChars <= 0 {
		excerptChars = 2000
	}
	return &IngestionCore{
		store:        st,
		scraper:      sc,
		enricher:     enricher,
		fetchContent: fetchContent,
		excerptChars: excerptChars,
		adapterFor:   sources.ForType,
	}
}

// SetAdapterResolver overrides how source types map to adapters.
func (c *IngestionCore) SetAdapterResolver(resolve func(sourceType string) sources.Adapter) {
	c.adapterFor = resolve
}

// Run processes all registered sources in registry order and returns
// the number of genuinely new articles stored. The scheduler guarantees
// runs do not overlap; Run itself holds no lock.
func (c *IngestionCore) Run(ctx context.Context) (int, error) {
	srcs, err := c.store.ListSources(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sources: %w", err)
	}

	log.Printf("[IngestionCore.Run] Starting pass over %d sources", len(srcs))
	totalNew := 0
	for _, src := range srcs {
		adapter := c.adapterFor(src.Type)
		candidates := adapter.Fetch(src.URL)

		newCount := 0
		for _, cand := range candidates {
			saved, err := c.ingestCandidate(ctx, cand, src.URL)
			if err != nil {
				// The store is the only error source here; adapter and
				// enrichment failures already degraded to zero values.
				return totalNew, fmt.Errorf("failed to save candidate %s: %w", cand.URL, err)
			}
			if saved {
				newCount++
			}
		}
		totalNew += newCount

		if err := c.store.TouchSource(ctx, src.URL, time.Now()); err != nil {
			log.Printf("[IngestionCore.Run] Failed to touch source %s: %v", src.URL, err)
		}
		log.Printf("[IngestionCore.Run] Source %s (%s): %d candidates, %d new", src.URL, src.Type, len(candidates), newCount)
	}

	log.Printf("[IngestionCore.Run] Done, %d new articles", totalNew)
	return totalNew, nil
}

func (c *IngestionCore) ingestCandidate(ctx context.Context, cand sources.Candidate, sourceURL string) (bool, error) {
	if cand.Title == "" || cand.URL == "" {
		return false, nil
	}

	topic := classify.Classify(cand.Title)

	excerpt := ""
	if c.fetchContent {
		excerpt = c.scraper.FetchExcerpt(cand.URL, c.excerptChars)
	}
	summary := c.enricher.Summarize(ctx, cand.Title, excerpt)

	return c.store.SaveArticleIfNew(ctx, &store.Article{
		Title:     cand.Title,
		URL:       cand.URL,
		Published: cand.Date,
		Source:    sourceURL,
		Topic:     topic,
		Summary:   summary,
	})
}
