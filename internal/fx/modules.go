package fx

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/dkaravias/enerwatch/internal/ai"
	"github.com/dkaravias/enerwatch/internal/config"
	"github.com/dkaravias/enerwatch/internal/core"
	"github.com/dkaravias/enerwatch/internal/duckduckgo"
	"github.com/dkaravias/enerwatch/internal/quota"
	"github.com/dkaravias/enerwatch/internal/scheduler"
	"github.com/dkaravias/enerwatch/internal/scraper"
	"github.com/dkaravias/enerwatch/internal/search"
	"github.com/dkaravias/enerwatch/internal/serpapi"
	"github.com/dkaravias/enerwatch/internal/sources"
	"github.com/dkaravias/enerwatch/internal/store"
	"github.com/dkaravias/enerwatch/internal/tavily"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// StoreModule provides database connectivity
var StoreModule = fx.Module("store",
	fx.Provide(NewPostgresStore),
)

// ScraperModule provides web scraping capabilities
var ScraperModule = fx.Module("scraper",
	fx.Provide(scraper.NewScraper),
)

// AIModule provides the AI provider chain (may resolve to nil)
var AIModule = fx.Module("ai",
	fx.Provide(NewAIProvider),
)

// QuotaModule provides the daily AI budget tracker and enricher
var QuotaModule = fx.Module("quota",
	fx.Provide(
		NewQuotaTracker,
		NewEnricher,
	),
)

// SearchModule provides search registry with all search providers
var SearchModule = fx.Module("search",
	fx.Provide(NewSearchRegistry),
)

// SourcesModule provides the source registry
var SourcesModule = fx.Module("sources",
	fx.Provide(NewSourceRegistry),
)

// CoreModule provides business logic cores
var CoreModule = fx.Module("core",
	fx.Provide(
		NewIngestionCore,
		NewSearchCore,
		NewRankCore,
	),
)

// SchedulerModule provides the cron-driven ingestion worker
var SchedulerModule = fx.Module("scheduler",
	fx.Provide(NewWorker),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewPostgresStore creates database connection
func NewPostgresStore(cfg config.Config) (store.Store, error) {
	ctx := context.Background()
	st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Printf("[FX] PostgresStore initialized")
	return st, nil
}

// NewAIProvider builds the enrichment provider chain from whatever
// keys are configured. Returns nil when none are: enrichment then
// degrades to empty summaries instead of failing the app.
func NewAIProvider(cfg config.Config) ai.Provider {
	var providers []ai.Provider

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, ai.NewLLMProvider("openai", cfg.OpenAIAPIKey))
		log.Printf("[FX] AIProvider: OpenAI registered")
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("[FX] AIProvider: Gemini init failed: %v", err)
		} else {
			providers = append(providers, gemini)
			log.Printf("[FX] AIProvider: Gemini registered")
		}
	}

	switch len(providers) {
	case 0:
		log.Printf("[FX] AIProvider: no API keys configured, AI enrichment disabled")
		return nil
	case 1:
		return providers[0]
	default:
		log.Printf("[FX] AIProvider: MultiProvider with %d providers", len(providers))
		return ai.NewMultiProvider(providers...)
	}
}

// NewQuotaTracker creates the daily AI time budget tracker
func NewQuotaTracker(st store.Store, cfg config.Config) *quota.Tracker {
	t := quota.NewTracker(st, float64(cfg.MaxDailyAISeconds))
	log.Printf("[FX] QuotaTracker initialized (%d s/day)", cfg.MaxDailyAISeconds)
	return t
}

// NewEnricher creates the quota-gated summarizer
func NewEnricher(provider ai.Provider, tracker *quota.Tracker) *quota.Enricher {
	return quota.NewEnricher(provider, tracker)
}

// NewSearchRegistry creates search registry with all available providers.
// DuckDuckGo needs no key and is always last, so a keyless deployment
// still has a working search path.
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()

	if cfg.TavilyAPIKey != "" {
		registry.Register(tavily.NewClient(cfg.TavilyAPIKey))
		log.Printf("[FX] SearchRegistry: Tavily registered")
	}
	if cfg.SerpAPIKey != "" {
		registry.Register(serpapi.NewClient(cfg.SerpAPIKey))
		log.Printf("[FX] SearchRegistry: SerpApi registered")
	}
	registry.Register(duckduckgo.NewClient())

	log.Printf("[FX] SearchRegistry initialized with %d providers", registry.Count())
	return registry
}

// NewSourceRegistry creates the source registry
func NewSourceRegistry(st store.Store) *sources.Registry {
	return sources.NewRegistry(st)
}

// NewIngestionCore creates the scheduled ingestion pipeline
func NewIngestionCore(st store.Store, sc *scraper.Scraper, enricher *quota.Enricher, cfg config.Config) *core.IngestionCore {
	c := core.NewIngestionCore(st, sc, enricher, cfg.FetchArticleContent, cfg.ExcerptMaxChars)
	log.Printf("[FX] IngestionCore initialized")
	return c
}

// NewSearchCore creates the on-demand search pipeline
func NewSearchCore(st store.Store, registry *search.Registry, sc *scraper.Scraper, enricher *quota.Enricher, provider ai.Provider, cfg config.Config) *core.SearchCore {
	c := core.NewSearchCore(st, registry, sc, enricher, provider, cfg.FetchArticleContent, cfg.ExcerptMaxChars)
	log.Printf("[FX] SearchCore initialized")
	return c
}

// NewRankCore creates the query-time re-ranker
func NewRankCore(st store.Store, provider ai.Provider) *core.RankCore {
	return core.NewRankCore(st, provider)
}

// NewWorker creates the cron-driven ingestion worker
func NewWorker(ingestion *core.IngestionCore) *scheduler.Worker {
	return scheduler.NewWorker(ingestion)
}
