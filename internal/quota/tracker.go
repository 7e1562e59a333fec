package quota

import (
	"context"
	"log"
	"time"

	"github.com/dkaravias/enerwatch/internal/store"
)

// DefaultDailyBudgetSeconds is the wall-clock time per calendar day the
// service may spend inside paid AI calls (20 minutes).
const DefaultDailyBudgetSeconds = 1200

// Status is the externally visible quota state.
type Status struct {
	Date             string  `json:"date"`
	ConsumedSeconds  float64 `json:"consumed_seconds"`
	BudgetSeconds    float64 `json:"budget_seconds"`
	RemainingSeconds float64 `json:"remaining_seconds"`
}

// Tracker accounts AI time against a daily budget. The counter is keyed
// by calendar day in the store, so the day rollover is simply reading a
// day that has no row yet.
type Tracker struct {
	store  store.Store
	budget float64
	now    func() time.Time
}

func NewTracker(st store.Store, budgetSeconds float64) *Tracker {
	if budgetSeconds <= 0 {
		budgetSeconds = DefaultDailyBudgetSeconds
	}
	return &Tracker{store: st, budget: budgetSeconds, now: time.Now}
}

func (t *Tracker) today() string {
	return t.now().Format("2006-01-02")
}

// Consumed returns the seconds spent today. Store trouble reads as a
// full budget so a broken counter cannot unlock unlimited spending.
func (t *Tracker) Consumed(ctx context.Context) float64 {
	seconds, err := t.store.UsageSeconds(ctx, t.today())
	if err != nil {
		log.Printf("[Tracker.Consumed] Failed to read usage: %v", err)
		return t.budget
	}
	return seconds
}

// Exhausted reports whether today's budget is spent.
func (t *Tracker) Exhausted(ctx context.Context) bool {
	return t.Consumed(ctx) >= t.budget
}

// Add charges elapsed seconds to today's counter.
func (t *Tracker) Add(ctx context.Context, seconds float64) {
	if seconds <= 0 {
		return
	}
	if err := t.store.AddUsageSeconds(ctx, t.today(), seconds); err != nil {
		log.Printf("[Tracker.Add] Failed to record %.2fs: %v", seconds, err)
	}
}

func (t *Tracker) Status(ctx context.Context) Status {
	consumed := t.Consumed(ctx)
	remaining := t.budget - consumed
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Date:             t.today(),
		ConsumedSeconds:  consumed,
		BudgetSeconds:    t.budget,
		RemainingSeconds: remaining,
	}
}
