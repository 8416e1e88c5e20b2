package models

// Place is the canonical record for a resolved venue. It is built from a
// successful two-step provider lookup and is immutable once cached; the
// cache layer tracks access bookkeeping separately.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	PhotoURL         string   `json:"photo_url,omitempty"`
	PhotoReferences  []string `json:"photo_references,omitempty"`
	RawQuery         string   `json:"raw_query,omitempty"`
	ConfidenceScore  float64  `json:"confidence_score"`
}

// Candidate is one free-text venue name extracted upstream from video
// metadata, with an optional location hint such as "Brooklyn NY".
type Candidate struct {
	Name         string `json:"name"`
	LocationHint string `json:"location_hint,omitempty"`
}

// ResolvedPlace is the per-candidate output shape returned to callers.
type ResolvedPlace struct {
	Name             string   `json:"name"`
	OriginalQuery    string   `json:"original_query"`
	FormattedAddress string   `json:"formatted_address"`
	PlaceID          string   `json:"place_id"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	PhotoURL         string   `json:"photo_url,omitempty"`
	Photos           []string `json:"photos"`
}

// BatchStats reports cache efficiency for one resolution batch.
type BatchStats struct {
	TotalCandidates int `json:"total_candidates"`
	CacheHits       int `json:"cache_hits"`
	APICalls        int `json:"api_calls"`
	UniquePlaces    int `json:"unique_places"`
}

// BatchResult is the aggregate output of resolving a batch of candidates.
type BatchResult struct {
	Places    []ResolvedPlace `json:"places"`
	Stats     BatchStats      `json:"stats"`
	FromCache bool            `json:"from_cache"`
}
