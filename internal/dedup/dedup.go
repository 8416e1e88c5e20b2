// Package dedup merges near-duplicate venue names before they trigger
// new provider lookups. It keeps an in-memory set of every normalized
// key in the persistent cache and fuzzy-matches incoming names against
// it with a token-order-insensitive similarity measure.
package dedup

import (
	"context"
	"sync"

	"github.com/planitlabs/placecache/internal/normalize"
)

// DefaultThreshold is the minimum similarity score (0-100) for two
// names to be treated as the same venue.
const DefaultThreshold = 85.0

// KeyLister provides the set of normalized keys currently cached.
// *database.PlaceRepo satisfies it.
type KeyLister interface {
	KnownKeys(ctx context.Context) ([]string, error)
}

type Config struct {
	Similarity Similarity
	Threshold  float64
}

// Match pairs an original input name with the canonical key it was
// merged into.
type Match struct {
	Original     string
	CanonicalKey string
}

// Deduplicator owns the known-keys set. The set can go stale under
// concurrent writers until Refresh runs; a stale set only costs a
// missed fuzzy match and a redundant provider call, never a wrong
// result.
type Deduplicator struct {
	keys      KeyLister
	sim       Similarity
	threshold float64

	mu    sync.RWMutex
	known map[string]struct{}
}

func New(ctx context.Context, keys KeyLister, config Config) (*Deduplicator, error) {
	if config.Similarity == nil {
		config.Similarity = TokenSortRatio{}
	}
	if config.Threshold == 0 {
		config.Threshold = DefaultThreshold
	}

	d := &Deduplicator{
		keys:      keys,
		sim:       config.Similarity,
		threshold: config.Threshold,
		known:     make(map[string]struct{}),
	}
	if err := d.Refresh(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Refresh reloads the known-keys set from the store. The resolver calls
// this after every successful new-place save.
func (d *Deduplicator) Refresh(ctx context.Context) error {
	keys, err := d.keys.KnownKeys(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		known[k] = struct{}{}
	}

	d.mu.Lock()
	d.known = known
	d.mu.Unlock()
	return nil
}

// FindSimilarPlace normalizes the input and looks for a cached key that
// is the same venue: an exact key match scores 100, otherwise the
// globally best-scoring known key wins if it reaches the threshold.
func (d *Deduplicator) FindSimilarPlace(name, locationHint string) (string, float64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.known) == 0 {
		return "", 0, false
	}

	key := normalize.Key(name, locationHint)
	if _, ok := d.known[key]; ok {
		return key, 100, true
	}

	best, score := bestMatch(d.sim, key, d.known)
	if score >= d.threshold {
		return best, score, true
	}
	return "", 0, false
}

// DeduplicateBatch merges near-duplicates within a single ordered batch
// of names, before any cache or provider lookups. The seen set is
// batch-local; cross-batch duplicates are caught later by
// FindSimilarPlace during resolution.
func (d *Deduplicator) DeduplicateBatch(names []string) []Match {
	matches := make([]Match, 0, len(names))
	seen := make(map[string]struct{})

	for _, name := range names {
		key := normalize.Key(name, "")

		best, score := bestMatch(d.sim, key, seen)
		if score >= d.threshold {
			matches = append(matches, Match{Original: name, CanonicalKey: best})
			continue
		}

		seen[key] = struct{}{}
		matches = append(matches, Match{Original: name, CanonicalKey: key})
	}

	return matches
}

// bestMatch scans every candidate and returns the highest-scoring one.
// Exact ties may return either candidate.
func bestMatch(sim Similarity, target string, candidates map[string]struct{}) (string, float64) {
	var best string
	var bestScore float64

	for c := range candidates {
		if score := sim.Ratio(target, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}
