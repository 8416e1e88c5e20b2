package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"googlemaps.github.io/maps"

	"github.com/planitlabs/placecache/internal/models"
)

const (
	photoEndpoint    = "https://maps.googleapis.com/maps/api/place/photo"
	biasRadiusMeters = 50000
)

// GoogleProvider resolves places through the Google Places API using
// FindPlaceFromText followed by Place Details, each with the smallest
// field mask that covers what the cache stores.
type GoogleProvider struct {
	client        *maps.Client
	apiKey        string
	maxPhotoWidth int
}

func NewGoogleProvider(apiKey string, maxPhotoWidth int, timeout time.Duration) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Google Maps API key is required")
	}
	if maxPhotoWidth <= 0 {
		maxPhotoWidth = 800
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := maps.NewClient(
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}

	return &GoogleProvider{
		client:        client,
		apiKey:        apiKey,
		maxPhotoWidth: maxPhotoWidth,
	}, nil
}

func (p *GoogleProvider) FindCandidate(ctx context.Context, query, locationBias string) (string, error) {
	req := &maps.FindPlaceFromTextRequest{
		Input:     query,
		InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		Fields:    []maps.PlaceSearchFieldMask{maps.PlaceSearchFieldMaskPlaceID},
	}

	if locationBias != "" {
		if center, err := maps.ParseLatLng(locationBias); err == nil {
			req.LocationBias = maps.FindPlaceFromTextLocationBiasCircular
			req.LocationBiasCenter = &center
			req.LocationBiasRadius = biasRadiusMeters
		}
	}

	resp, err := p.client.FindPlaceFromText(ctx, req)
	if err != nil {
		return "", fmt.Errorf("find place %q: %w", query, err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidate
	}

	return resp.Candidates[0].PlaceID, nil
}

func (p *GoogleProvider) GetDetails(ctx context.Context, placeID string) (*models.Place, error) {
	req := &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskPlaceID,
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometry,
			maps.PlaceDetailsFieldMaskPhotos,
		},
	}

	resp, err := p.client.PlaceDetails(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("place details %q: %w", placeID, err)
	}

	place := &models.Place{
		PlaceID:          resp.PlaceID,
		Name:             resp.Name,
		FormattedAddress: resp.FormattedAddress,
		Latitude:         resp.Geometry.Location.Lat,
		Longitude:        resp.Geometry.Location.Lng,
		ConfidenceScore:  1.0,
	}

	for _, photo := range resp.Photos {
		place.PhotoReferences = append(place.PhotoReferences, photo.PhotoReference)
	}
	if len(place.PhotoReferences) > 0 {
		place.PhotoURL = p.PhotoURL(place.PhotoReferences[0])
	}

	return place, nil
}

// PhotoURL synthesizes a size-constrained photo URL from a photo
// reference. The photo itself is never fetched here.
func (p *GoogleProvider) PhotoURL(photoReference string) string {
	return fmt.Sprintf("%s?maxwidth=%d&photo_reference=%s&key=%s",
		photoEndpoint, p.maxPhotoWidth, url.QueryEscape(photoReference), p.apiKey)
}
