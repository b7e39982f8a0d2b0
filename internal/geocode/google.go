package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// Google reverse-geocodes through the Google Geocoding API. Requires an
// API key (GOOGLE_MAPS_API_KEY).
type Google struct {
	client   *maps.Client
	limiter  *RateLimiter
	cache    *labelCache
	language string
}

// NewGoogle creates the Google backend.
func NewGoogle(cfg Config) (*Google, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY not set")
	}
	client, err := maps.NewClient(maps.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	return &Google{
		client:   client,
		limiter:  NewRateLimiter(cfg.Rate),
		cache:    newLabelCache(),
		language: cfg.Language,
	}, nil
}

func (g *Google) Source() string { return model.SourceOnline }

// Resolve reverse-geocodes one coordinate with the same retry bound as
// the Nominatim backend.
func (g *Google) Resolve(ctx context.Context, lat, lon float64) (model.LocationLabel, error) {
	key := cacheKey(lat, lon)
	if label, ok := g.cache.get(key); ok {
		return label, nil
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return model.LocationLabel{Source: model.SourceOnline}, err
		}
		label, err := g.reverse(ctx, lat, lon)
		if err == nil {
			g.cache.set(key, label)
			return label, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return model.LocationLabel{Source: model.SourceOnline},
		fmt.Errorf("reverse geocoding (%.5f, %.5f) failed after %d attempts: %w", lat, lon, maxAttempts, lastErr)
}

func (g *Google) reverse(ctx context.Context, lat, lon float64) (model.LocationLabel, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lon},
		Language: g.language,
	})
	if err != nil {
		return model.LocationLabel{}, fmt.Errorf("google reverse geocode: %w", err)
	}

	label := model.LocationLabel{Source: model.SourceOnline}
	if len(results) == 0 {
		// nothing at this coordinate; an empty label is a valid answer
		return label, nil
	}

	for _, comp := range results[0].AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality", "postal_town":
				if label.City == "" {
					label.City = comp.LongName
				}
			case "administrative_area_level_1":
				if label.Admin == "" {
					label.Admin = comp.LongName
				}
			case "country":
				if label.Country == "" {
					label.Country = comp.LongName
				}
			}
		}
	}
	return label, nil
}
