package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	appfx "github.com/dkaravias/enerwatch/internal/fx"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		appfx.ConfigModule,    // Provides: config.Config
		appfx.StoreModule,     // Provides: store.Store (Postgres)
		appfx.ScraperModule,   // Provides: *scraper.Scraper
		appfx.AIModule,        // Provides: ai.Provider (nil when no keys)
		appfx.QuotaModule,     // Provides: *quota.Tracker, *quota.Enricher
		appfx.SearchModule,    // Provides: *search.Registry
		appfx.SourcesModule,   // Provides: *sources.Registry
		appfx.CoreModule,      // Provides: ingestion, search and rank cores
		appfx.SchedulerModule, // Provides: *scheduler.Worker
		appfx.ServerModule,    // Starts the HTTP server and the scheduler

		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
