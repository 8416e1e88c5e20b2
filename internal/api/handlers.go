package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/planitlabs/placecache/internal/database"
	"github.com/planitlabs/placecache/internal/filter"
	"github.com/planitlabs/placecache/internal/models"
	"github.com/planitlabs/placecache/internal/resolver"
)

type App struct {
	Resolver *resolver.Service
	DB       *database.DB
	Market   *filter.Market

	// DefaultMaxAgeDays is used by cleanup requests that omit a value.
	DefaultMaxAgeDays int
}

type resolveRequest struct {
	Candidates []models.Candidate `json:"candidates"`

	// VideoID keys whole-batch memoization; repeat requests for the
	// same id return the stored result without provider calls.
	VideoID string `json:"video_id,omitempty"`

	// Deduplicate merges near-duplicate names within this request
	// before any lookups.
	Deduplicate bool `json:"deduplicate,omitempty"`

	// MarketFilter drops resolved venues outside the configured market.
	MarketFilter bool `json:"market_filter,omitempty"`
}

func (app *App) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New().String()[:8]

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Candidates) == 0 {
		http.Error(w, "At least one candidate is required", http.StatusBadRequest)
		return
	}

	log.Printf("[API %s] Resolving %d candidates (video=%q)", reqID, len(req.Candidates), req.VideoID)

	candidates := req.Candidates
	if req.Deduplicate {
		candidates = app.Resolver.PreDeduplicate(candidates)
	}

	result, err := app.Resolver.ResolveBatch(r.Context(), candidates, req.VideoID)
	if err != nil {
		log.Printf("[API %s] Resolution failed: %v", reqID, err)
		http.Error(w, "Resolution failed", http.StatusInternalServerError)
		return
	}

	if req.MarketFilter && app.Market != nil {
		result.Places = app.Market.Apply(result.Places)
		result.Stats.UniquePlaces = len(result.Places)
	}

	log.Printf("[API %s] Resolved %d places (cache_hits=%d api_calls=%d from_cache=%v)",
		reqID, len(result.Places), result.Stats.CacheHits, result.Stats.APICalls, result.FromCache)

	writeJSON(w, http.StatusOK, result)
}

func (app *App) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.DB.Stats(r.Context())
	if err != nil {
		log.Printf("[API] Stats failed: %v", err)
		http.Error(w, "Failed to gather stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type cleanupRequest struct {
	MaxAgeDays int `json:"max_age_days,omitempty"`
}

func (app *App) CleanupHandler(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if r.Body != nil {
		// An empty body means "use the configured retention window".
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.MaxAgeDays <= 0 {
		req.MaxAgeDays = app.DefaultMaxAgeDays
	}

	result, err := app.DB.Cleanup(r.Context(), req.MaxAgeDays)
	if err != nil {
		log.Printf("[API] Cleanup failed: %v", err)
		http.Error(w, "Cleanup failed", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Cleanup removed %d places, %d batches (older than %d days)",
		result.PlacesDeleted, result.BatchesDeleted, req.MaxAgeDays)
	writeJSON(w, http.StatusOK, result)
}

func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "placecache",
	})
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}
