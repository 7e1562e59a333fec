package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/dkaravias/enerwatch/internal/classify"
	"github.com/dkaravias/enerwatch/internal/config"
	"github.com/dkaravias/enerwatch/internal/core"
	"github.com/dkaravias/enerwatch/internal/quota"
	"github.com/dkaravias/enerwatch/internal/scheduler"
	"github.com/dkaravias/enerwatch/internal/sources"
	"github.com/dkaravias/enerwatch/internal/store"
)

// Services groups all service dependencies for REST handlers
type Services struct {
	Store      store.Store
	SearchCore *core.SearchCore
	RankCore   *core.RankCore
	Worker     *scheduler.Worker
	Sources    *sources.Registry
	Tracker    *quota.Tracker
	Enricher   *quota.Enricher
}

type articleView struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published"`
	Source    string `json:"source"`
	Topic     string `json:"topic"`
	Summary   string `json:"summary"`
	Saved     bool   `json:"saved"`
}

type sourceView struct {
	URL       string `json:"url"`
	Type      string `json:"type"`
	LastCheck string `json:"last_check"`
}

func toArticleViews(articles []*store.Article) []articleView {
	views := make([]articleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, articleView{
			Title:     a.Title,
			URL:       a.URL,
			Published: a.Published,
			Source:    a.Source,
			Topic:     a.Topic,
			Summary:   a.Summary,
			Saved:     a.Saved,
		})
	}
	return views
}

// CreateRESTHandler creates REST API endpoints
func CreateRESTHandler(services Services, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ingest/run":
			handleIngestRun(w, r, services.Worker, cfg.AdminAPIKey)
		case "/api/search":
			handleSearch(w, r, services.SearchCore, cfg.AdminAPIKey)
		case "/api/search/topics":
			handleSearchTopics(w, r, services.SearchCore, cfg.AdminAPIKey)
		case "/api/search/discover":
			handleDiscover(w, r, services.SearchCore, cfg.AdminAPIKey)
		case "/api/news":
			handleRecentNews(w, r, services.Store)
		case "/api/news/save":
			handleNewsSave(w, r, services.Store, cfg.AdminAPIKey)
		case "/api/news/search":
			handleRankedSearch(w, r, services.RankCore)
		case "/api/saved":
			handleSavedNews(w, r, services.Store)
		case "/api/quota":
			handleQuotaStatus(w, r, services.Tracker, services.Enricher)
		case "/api/sources":
			handleListSources(w, r, services.Sources)
		case "/api/sources/add":
			handleAddSource(w, r, services.Sources, cfg.AdminAPIKey)
		case "/api/sources/remove":
			handleRemoveSource(w, r, services.Sources, cfg.AdminAPIKey)
		default:
			http.NotFound(w, r)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[REST] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// authorized checks the X-API-Key header on mutating endpoints. An
// empty configured key leaves them open, which is how local runs work.
func authorized(r *http.Request, adminKey string) bool {
	return adminKey == "" || r.Header.Get("X-API-Key") == adminKey
}

func handleIngestRun(w http.ResponseWriter, r *http.Request, worker *scheduler.Worker, adminKey string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !authorized(r, adminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized - invalid or missing X-API-Key header")
		return
	}

	go worker.RunOnce()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "message": "ingestion pass started in background"})
}

func handleSearch(w http.ResponseWriter, r *http.Request, searchCore *core.SearchCore, adminKey string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !authorized(r, adminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized - invalid or missing X-API-Key header")
		return
	}

	var req struct {
		Query       string `json:"query"`
		MaxResults  int    `json:"max_results"`
		UseAIFilter *bool  `json:"use_ai_filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	useFilter := true
	if req.UseAIFilter != nil {
		useFilter = *req.UseAIFilter
	}

	saved, err := searchCore.Search(r.Context(), req.Query, req.MaxResults, useFilter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": req.Query, "new_articles": saved})
}

func handleSearchTopics(w http.ResponseWriter, r *http.Request, searchCore *core.SearchCore, adminKey string) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"topics": classify.SearchTopics()})
	case http.MethodPost:
		if !authorized(r, adminKey) {
			writeError(w, http.StatusUnauthorized, "unauthorized - invalid or missing X-API-Key header")
			return
		}
		var req struct {
			Topics      []string `json:"topics"`
			MaxPerTopic int      `json:"max_per_topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		total, perTopic, err := searchCore.SearchByTopics(r.Context(), req.Topics, req.MaxPerTopic)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"new_articles": total, "per_topic": perTopic})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func handleDiscover(w http.ResponseWriter, r *http.Request, searchCore *core.SearchCore, adminKey string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !authorized(r, adminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized - invalid or missing X-API-Key header")
		return
	}

	var req struct {
		MaxQueries int `json:"max_queries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := searchCore.Discover(r.Context(), req.MaxQueries)
	switch {
	case errors.Is(err, core.ErrNoAIProvider):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "discovery failed")
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func handleRecentNews(w http.ResponseWriter, r *http.Request, st store.Store) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	articles, err := st.RecentArticles(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load articles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": toArticleViews(articles)})
}

func handleSavedNews(w http.ResponseWriter, r *http.Request, st store.Store) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	articles, err := st.SavedArticles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load articles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": toArticleViews(articles)})
}

func handleNewsSave(w http.ResponseWriter, r *http.Request, st store.Store, adminKey string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !authorized(r, adminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized - invalid or missing X-API-Key header")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	exists, err := st.ArticleExists(r.Context(), req.URL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to look up article")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	if err := st.MarkSaved(r.Context(), req.URL); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save article")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "url": req.URL})
}

func handleRankedSearch(w http.ResponseWriter, r *http.Request, rankCore *core.RankCore) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	ranked, err := rankCore.Rank(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to rank articles")
		return
	}

	type rankedView struct {
		articleView
		Score int `json:"score"`
	}
	views := make([]rankedView, 0, len(ranked))
	for _, ra := range ranked {
		vs := toArticleViews([]*store.Article{ra.Article})
		views = append(views, rankedView{articleView: vs[0], Score: ra.Score})
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "articles": views})
}

func handleQuotaStatus(w http.ResponseWriter, r *http.Request, tracker *quota.Tracker, enricher *quota.Enricher) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := tracker.Status(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"ai_enabled": enricher.Enabled(),
		"quota":      status,
	})
}

func handleListSources(w http.ResponseWriter, r *http.Request, registry *sources.Registry) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	srcs, err := registry.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load sources")
		return
	}
	views := make([]sourceView, 0, len(srcs))
	for _, s := range srcs {
		views = append(views, sourceView{URL: s.URL, Type: s.Type, LastCheck: s.LastCheck})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": views})
}

func handleAddSource(w http.ResponseWriter, r *http.Request, registry *sources.Registry, adminKey string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !authorized(r, adminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized - invalid or missing X-API-Key header")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	src, err := registry.Add(r.Context(), req.URL)
	switch {
	case errors.Is(err, sources.ErrEmptyURL), errors.Is(err, sources.ErrBadScheme):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sources.ErrExists):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to register source")
	default:
		writeJSON(w, http.StatusOK, sourceView{URL: src.URL, Type: src.Type})
	}
}

func handleRemoveSource(w http.ResponseWriter, r *http.Request, registry *sources.Registry, adminKey string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !authorized(r, adminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized - invalid or missing X-API-Key header")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := registry.Remove(r.Context(), req.URL)
	switch {
	case errors.Is(err, sources.ErrEmptyURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sources.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to remove source")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed", "url": req.URL})
	}
}
