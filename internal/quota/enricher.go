package quota

import (
	"context"
	"log"
	"time"

	"github.com/dkaravias/enerwatch/internal/ai"
)

// Enricher is the quota gate in front of the AI summarizer. It is the
// pipeline's backpressure mechanism: once the daily budget is spent,
// every Summarize call is a no-op and articles go in without summaries.
type Enricher struct {
	provider ai.Provider // nil when no credential is configured
	tracker  *Tracker
	now      func() time.Time
}

func NewEnricher(provider ai.Provider, tracker *Tracker) *Enricher {
	return &Enricher{provider: provider, tracker: tracker, now: time.Now}
}

// Summarize returns a summary for the article, or "" when no provider
// is configured, the budget is spent, or the call fails. The elapsed
// wall time of an attempt is charged whether it succeeded or not, so
// a broken credential burning real latency still drains the budget
// instead of retrying for free all day.
func (e *Enricher) Summarize(ctx context.Context, title, content string) string {
	if e.provider == nil {
		return ""
	}
	if e.tracker.Exhausted(ctx) {
		log.Printf("[Enricher.Summarize] Daily AI budget exhausted, skipping")
		return ""
	}

	start := e.now()
	summary, err := e.provider.Summarize(title, content)
	elapsed := e.now().Sub(start).Seconds()
	e.tracker.Add(ctx, elapsed)

	if err != nil {
		log.Printf("[Enricher.Summarize] Summarization failed after %.2fs: %v", elapsed, err)
		return ""
	}
	return summary
}

// Enabled reports whether an AI provider is configured at all.
func (e *Enricher) Enabled() bool {
	return e.provider != nil
}
