// Package provider wraps the metered external place-lookup service.
// Every resolved place costs exactly two calls: a find-candidate lookup
// and a details fetch with a minimal field mask.
package provider

import (
	"context"
	"errors"

	"github.com/planitlabs/placecache/internal/models"
)

// ErrNoCandidate means the provider returned no match for a query.
// Callers treat it like any other provider failure: the candidate
// resolves to absent and nothing is cached.
var ErrNoCandidate = errors.New("no place candidate found")

type Provider interface {
	// FindCandidate returns the provider's place id for a free-text
	// query. locationBias, when non-empty, is a "lat,lng" point to bias
	// results toward.
	FindCandidate(ctx context.Context, query, locationBias string) (string, error)

	// GetDetails fetches the canonical name, address, geometry, and
	// photo references for a place id.
	GetDetails(ctx context.Context, placeID string) (*models.Place, error)
}
