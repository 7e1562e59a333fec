package fx

import (
	"context"
	"errors"
	"log"
	"net/http"

	"go.uber.org/fx"

	"github.com/dkaravias/enerwatch/internal/config"
	"github.com/dkaravias/enerwatch/internal/core"
	"github.com/dkaravias/enerwatch/internal/quota"
	"github.com/dkaravias/enerwatch/internal/scheduler"
	"github.com/dkaravias/enerwatch/internal/server"
	"github.com/dkaravias/enerwatch/internal/sources"
	"github.com/dkaravias/enerwatch/internal/store"
)

// ServerModule starts the HTTP server and the ingestion scheduler
var ServerModule = fx.Module("server",
	fx.Invoke(
		StartServer,
		StartScheduler,
	),
)

// ServerParams groups dependencies for the HTTP server
type ServerParams struct {
	fx.In
	Lifecycle  fx.Lifecycle
	Store      store.Store
	SearchCore *core.SearchCore
	RankCore   *core.RankCore
	Worker     *scheduler.Worker
	Sources    *sources.Registry
	Tracker    *quota.Tracker
	Enricher   *quota.Enricher
	Config     config.Config
}

// StartServer wires the REST handler and runs it under the fx lifecycle
func StartServer(p ServerParams) {
	services := server.Services{
		Store:      p.Store,
		SearchCore: p.SearchCore,
		RankCore:   p.RankCore,
		Worker:     p.Worker,
		Sources:    p.Sources,
		Tracker:    p.Tracker,
		Enricher:   p.Enricher,
	}
	handler := server.CreateRecoveryHandler(server.WithCORS(server.CreateRESTHandler(services, p.Config)))
	srv := &http.Server{Addr: p.Config.HTTPAddr, Handler: handler}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("[FX] HTTP Server listening on %s", p.Config.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			p.Store.Close()
			return nil
		},
	})
}

// StartScheduler runs the cron worker under the fx lifecycle
func StartScheduler(lc fx.Lifecycle, worker *scheduler.Worker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			worker.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			worker.Stop()
			return nil
		},
	})
}
