package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/newswatchhq/newswatch/internal/cache"
	"github.com/newswatchhq/newswatch/internal/metrics"
	"github.com/newswatchhq/newswatch/internal/models"
	"github.com/newswatchhq/newswatch/internal/tracing"
	"github.com/newswatchhq/newswatch/pkg/logging"
)

// Refresher runs the fetch-annotate-aggregate pipeline.
type Refresher interface {
	Refresh(ctx context.Context, now time.Time) (*models.Snapshot, error)
}

// Enqueuer hands a refresh off to the background queue. Satisfied by
// queue.Client; nil when the service runs without Redis.
type Enqueuer interface {
	EnqueueRefresh(ctx context.Context, force bool) (string, error)
}

// Handler serves the dashboard JSON API.
type Handler struct {
	cache     *cache.ResponseCache
	refresher Refresher
	enqueuer  Enqueuer
	metrics   *metrics.Metrics
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewHandler creates the API handler with CORS and metrics routes.
// enqueuer may be nil; the refresh trigger endpoint then reports the
// queue as unavailable.
func NewHandler(c *cache.ResponseCache, refresher Refresher, enqueuer Enqueuer, m *metrics.Metrics) http.Handler {
	h := &Handler{
		cache:     c,
		refresher: refresher,
		enqueuer:  enqueuer,
		metrics:   m,
		logger:    slog.Default(),
		mux:       http.NewServeMux(),
	}
	h.setupRoutes()

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return corsWrapper.Handler(h.mux)
}

func (h *Handler) setupRoutes() {
	h.mux.Handle("/metrics", promhttp.Handler())
	h.mux.HandleFunc("/api/news", h.handleNews)
	h.mux.HandleFunc("/api/refresh", h.handleRefreshTrigger)
	h.mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// newsResponse is the single read endpoint's body.
type newsResponse struct {
	Articles  []models.AnnotatedArticle `json:"articles"`
	Analytics *models.AnalyticsSummary  `json:"analytics"`
	FetchedAt time.Time                 `json:"fetchedAt"`
	Stale     bool                      `json:"stale,omitempty"`
}

// handleNews serves the cached snapshot, refreshing it when the TTL has
// lapsed or when ?refresh=true forces it. A failed refresh falls back
// to stale data when any exists; with no data at all the upstream error
// surfaces as 502.
func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()
	force := r.URL.Query().Get("refresh") == "true"

	var (
		snapshot *models.Snapshot
		hit      bool
		err      error
	)
	if force {
		snapshot, err = h.cache.ForceRefresh(ctx, now, h.refresher.Refresh)
	} else {
		snapshot, hit, err = h.cache.GetOrRefresh(ctx, now, h.refresher.Refresh)
	}

	if h.metrics != nil {
		if hit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}

	if err != nil {
		logging.HTTPErrorLogger(h.logger, http.StatusBadGateway, err, r)
		if stale, ok := h.cache.Peek(); ok {
			respondJSON(w, newsResponse{
				Articles:  stale.Articles,
				Analytics: stale.Analytics,
				FetchedAt: stale.FetchedAt,
				Stale:     true,
			}, http.StatusOK)
			return
		}
		respondError(w, "news provider unavailable", http.StatusBadGateway)
		return
	}

	tracing.SetSpanAttributes(ctx,
		attribute.Int("articles.count", len(snapshot.Articles)),
		attribute.Bool("cache.hit", hit),
	)

	respondJSON(w, newsResponse{
		Articles:  snapshot.Articles,
		Analytics: snapshot.Analytics,
		FetchedAt: snapshot.FetchedAt,
	}, http.StatusOK)
}

// handleRefreshTrigger enqueues a forced background refresh instead of
// blocking the request on the pipeline. 202 with the run ID on
// success; 503 when the service runs without a queue.
func (h *Handler) handleRefreshTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.enqueuer == nil {
		respondError(w, "background refresh unavailable", http.StatusServiceUnavailable)
		return
	}

	runID, err := h.enqueuer.EnqueueRefresh(r.Context(), true)
	if err != nil {
		logging.HTTPErrorLogger(h.logger, http.StatusBadGateway, err, r)
		respondError(w, "failed to enqueue refresh", http.StatusBadGateway)
		return
	}

	respondJSON(w, map[string]string{
		"status": "queued",
		"runId":  runID,
	}, http.StatusAccepted)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
