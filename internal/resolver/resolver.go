// Package resolver orchestrates place resolution: persistent cache
// first, then alias and fuzzy matches, and the metered provider only as
// a last resort. It also derives per-batch call accounting.
package resolver

import (
	"context"
	"fmt"
	"log"

	"github.com/planitlabs/placecache/internal/database"
	"github.com/planitlabs/placecache/internal/dedup"
	"github.com/planitlabs/placecache/internal/models"
	"github.com/planitlabs/placecache/internal/normalize"
	"github.com/planitlabs/placecache/internal/provider"
)

type Service struct {
	places   *database.PlaceRepo
	batches  *database.BatchRepo
	dedup    *dedup.Deduplicator
	provider provider.Provider
}

func NewService(
	places *database.PlaceRepo,
	batches *database.BatchRepo,
	deduplicator *dedup.Deduplicator,
	prov provider.Provider,
) *Service {
	return &Service{
		places:   places,
		batches:  batches,
		dedup:    deduplicator,
		provider: prov,
	}
}

// ResolveSingle resolves one candidate. First hit wins: direct cache,
// fuzzy match against known keys (recording an alias), then the
// provider. A provider failure yields (nil, nil) and caches nothing, so
// the next attempt queries the provider again; persistence failures
// propagate as errors.
func (s *Service) ResolveSingle(ctx context.Context, name, locationHint string) (*models.ResolvedPlace, error) {
	key := normalize.Key(name, locationHint)

	place, err := s.places.GetPlace(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache lookup for %q: %w", key, err)
	}
	if place != nil {
		log.Printf("[RESOLVE] Cache hit for %q", name)
		return resolved(place, name), nil
	}

	if canonical, score, ok := s.dedup.FindSimilarPlace(name, locationHint); ok && canonical != key {
		log.Printf("[RESOLVE] Fuzzy match %q -> %q (score %.1f)", name, canonical, score)

		if err := s.places.AddAlias(ctx, key, canonical, score); err != nil {
			return nil, fmt.Errorf("saving alias %q: %w", key, err)
		}

		place, err := s.places.GetPlace(ctx, canonical)
		if err != nil {
			return nil, fmt.Errorf("cache lookup for %q: %w", canonical, err)
		}
		if place == nil {
			// Known-keys set ahead of the cache; treat as absent.
			log.Printf("[RESOLVE] Canonical record missing for %q", canonical)
			return nil, nil
		}
		return resolved(place, name), nil
	}

	query := name
	if locationHint != "" {
		query = name + " " + locationHint
	}
	log.Printf("[RESOLVE] Cache miss, querying provider for %q", query)

	place, err = s.lookup(ctx, query)
	if err != nil {
		log.Printf("[RESOLVE] Provider lookup failed for %q: %v", query, err)
		return nil, nil
	}

	if err := s.places.SavePlace(ctx, key, place); err != nil {
		return nil, fmt.Errorf("saving place %q: %w", key, err)
	}
	if err := s.dedup.Refresh(ctx); err != nil {
		// Staleness only costs a missed fuzzy match later.
		log.Printf("[RESOLVE] Known-keys refresh failed: %v", err)
	}

	return resolved(place, name), nil
}

// ResolveBatch resolves candidates sequentially in input order. With a
// batch id, a memoized result is returned verbatim before any
// per-candidate work, and a fresh result with at least one place is
// persisted for future reuse. One candidate's provider failure never
// aborts the rest of the batch.
func (s *Service) ResolveBatch(ctx context.Context, candidates []models.Candidate, batchID string) (*models.BatchResult, error) {
	stats := models.BatchStats{TotalCandidates: len(candidates)}

	if batchID != "" {
		cached, err := s.batches.GetBatch(ctx, batchID)
		if err != nil {
			return nil, fmt.Errorf("batch lookup for %q: %w", batchID, err)
		}
		if cached != nil {
			log.Printf("[RESOLVE] Full batch cache hit for %q", batchID)
			stats.CacheHits = stats.TotalCandidates
			stats.UniquePlaces = len(cached)
			return &models.BatchResult{Places: cached, Stats: stats, FromCache: true}, nil
		}
	}

	before, err := s.places.KnownKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshotting cache keys: %w", err)
	}

	places := make([]models.ResolvedPlace, 0, len(candidates))
	for _, c := range candidates {
		place, err := s.ResolveSingle(ctx, c.Name, c.LocationHint)
		if err != nil {
			return nil, err
		}
		if place != nil {
			places = append(places, *place)
		}
	}

	after, err := s.places.KnownKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshotting cache keys: %w", err)
	}

	stats.APICalls = countNew(before, after)
	stats.CacheHits = stats.TotalCandidates - stats.APICalls
	stats.UniquePlaces = len(places)

	if batchID != "" && len(places) > 0 {
		if err := s.batches.SaveBatch(ctx, batchID, places); err != nil {
			return nil, fmt.Errorf("saving batch %q: %w", batchID, err)
		}
		log.Printf("[RESOLVE] Cached batch result for %q", batchID)
	}

	return &models.BatchResult{Places: places, Stats: stats}, nil
}

// PreDeduplicate merges near-duplicate names within one batch before
// any lookups happen, keeping the first candidate seen for each
// canonical key in input order.
func (s *Service) PreDeduplicate(candidates []models.Candidate) []models.Candidate {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}

	kept := make([]models.Candidate, 0, len(candidates))
	seen := make(map[string]struct{})
	for i, m := range s.dedup.DeduplicateBatch(names) {
		if _, ok := seen[m.CanonicalKey]; ok {
			log.Printf("[RESOLVE] Batch dedup merged %q into %q", m.Original, m.CanonicalKey)
			continue
		}
		seen[m.CanonicalKey] = struct{}{}
		kept = append(kept, candidates[i])
	}

	return kept
}

func (s *Service) lookup(ctx context.Context, query string) (*models.Place, error) {
	placeID, err := s.provider.FindCandidate(ctx, query, "")
	if err != nil {
		return nil, err
	}

	place, err := s.provider.GetDetails(ctx, placeID)
	if err != nil {
		return nil, err
	}

	place.RawQuery = query
	return place, nil
}

func resolved(place *models.Place, originalQuery string) *models.ResolvedPlace {
	name := place.Name
	if name == "" {
		name = originalQuery
	}

	photos := place.PhotoReferences
	if photos == nil {
		photos = []string{}
	}

	return &models.ResolvedPlace{
		Name:             name,
		OriginalQuery:    originalQuery,
		FormattedAddress: place.FormattedAddress,
		PlaceID:          place.PlaceID,
		Latitude:         place.Latitude,
		Longitude:        place.Longitude,
		PhotoURL:         place.PhotoURL,
		Photos:           photos,
	}
}

func countNew(before, after []string) int {
	old := make(map[string]struct{}, len(before))
	for _, k := range before {
		old[k] = struct{}{}
	}

	added := 0
	for _, k := range after {
		if _, ok := old[k]; !ok {
			added++
		}
	}
	return added
}
