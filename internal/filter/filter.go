// Package filter decides whether a resolved venue belongs to a target
// market based on its address text. Single source of truth for the
// keep/reject rule: reject only when the address carries an
// out-of-market indicator and no in-market one; venues with no location
// indicators at all are kept.
package filter

import (
	"strings"

	"github.com/planitlabs/placecache/internal/models"
)

type Market struct {
	Name       string
	indicators []string
	foreign    []string
}

// NYC is the default market.
func NYC() *Market {
	return &Market{
		Name: "nyc",
		indicators: []string{
			"new york", "ny", "manhattan", "brooklyn", "queens",
			"bronx", "staten island",
		},
		foreign: []string{
			"nj", "new jersey", "jersey city", "hoboken", "jersey",
			"denver", "colorado",
			"california", "los angeles", "san francisco", "san diego",
			"chicago", "illinois",
			"miami", "florida",
			"boston", "massachusetts",
			"seattle",
			"portland", "oregon",
			"philadelphia", "pennsylvania",
			"atlanta", "georgia",
			"dallas", "texas", "houston", "austin",
			"phoenix", "arizona",
			"las vegas", "nevada",
		},
	}
}

// Contains reports whether the venue belongs to the market, with the
// reason for the decision.
func (m *Market) Contains(address, neighborhood string) (bool, string) {
	combined := strings.ToLower(address) + " " + strings.ToLower(neighborhood)

	hasMarket := containsAny(combined, m.indicators)
	hasForeign := containsAny(combined, m.foreign)

	switch {
	case hasForeign && !hasMarket:
		return false, "has out-of-market indicator, no market indicator"
	case hasMarket:
		return true, "has market indicator"
	default:
		return true, "no location indicators"
	}
}

// Apply keeps only the resolved places whose formatted address passes
// Contains.
func (m *Market) Apply(places []models.ResolvedPlace) []models.ResolvedPlace {
	kept := make([]models.ResolvedPlace, 0, len(places))
	for _, p := range places {
		if ok, _ := m.Contains(p.FormattedAddress, ""); ok {
			kept = append(kept, p)
		}
	}
	return kept
}

func containsAny(s string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}
