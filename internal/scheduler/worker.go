package scheduler

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dkaravias/enerwatch/internal/core"
)

// ingestSchedule fires the collection pass twice a day, morning and
// evening Athens time.
const ingestSchedule = "0 8,20 * * *"

// runTimeout bounds one full pass; a hung source must not hold the
// scheduler past the next firing.
const runTimeout = 30 * time.Minute

// Worker drives the scheduled ingestion passes.
type Worker struct {
	ingestion *core.IngestionCore
	cron      *cron.Cron
	running   atomic.Bool
}

func NewWorker(ingestion *core.IngestionCore) *Worker {
	loc, err := time.LoadLocation("Europe/Athens")
	if err != nil {
		loc = time.UTC
	}
	return &Worker{
		ingestion: ingestion,
		cron:      cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the schedule and starts the cron loop.
func (w *Worker) Start() {
	log.Println("[Worker] Starting ingestion scheduler...")

	_, err := w.cron.AddFunc(ingestSchedule, func() {
		// Run async to not block the scheduler
		go w.RunOnce()
	})
	if err != nil {
		log.Printf("[Worker] Failed to schedule ingestion job: %v", err)
		return
	}

	w.cron.Start()
	log.Printf("[Worker] Scheduled ingestion at 08:00 and 20:00 (%s)", ingestSchedule)
}

// Stop stops the cron loop. A pass already in flight finishes on its
// own timeout.
func (w *Worker) Stop() {
	w.cron.Stop()
	log.Println("[Worker] Stopped")
}

// RunOnce executes a single ingestion pass. Overlapping invocations are
// skipped, so a slow pass never stacks behind the next cron firing.
func (w *Worker) RunOnce() {
	if !w.running.CompareAndSwap(false, true) {
		log.Println("[Worker] Previous ingestion pass still running, skipping")
		return
	}
	defer w.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	started := time.Now()
	saved, err := w.ingestion.Run(ctx)
	if err != nil {
		log.Printf("[Worker] Ingestion pass failed: %v", err)
		return
	}
	log.Printf("[Worker] Ingestion pass complete: %d new articles in %s", saved, time.Since(started).Round(time.Second))
}
