// Package geocode resolves coordinates to city/admin/country labels,
// either against a preloaded offline city dataset or through an online
// reverse-geocoding service.
package geocode

import (
	"context"
	"fmt"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// Geocoding modes.
const (
	ModeOffline = "offline"
	ModeOnline  = "online"
)

// Online providers.
const (
	ProviderNominatim = "nominatim"
	ProviderGoogle    = "google"
)

// ValidProvider reports whether p names a known online provider. The
// empty string counts as valid and selects the default provider.
func ValidProvider(p string) bool {
	switch p {
	case "", ProviderNominatim, ProviderGoogle:
		return true
	}
	return false
}

// Backend resolves a coordinate to a location label. Resolve returns an
// error only when a lookup failed after the backend's own retry policy;
// even then the returned label carries the attempted source tag, so
// callers can degrade that single waypoint to an empty label.
type Backend interface {
	Resolve(ctx context.Context, lat, lon float64) (model.LocationLabel, error)
	Source() string
}

// Config selects and parameterizes a backend.
type Config struct {
	Mode      string  // "offline" or "online"
	Provider  string  // online provider: "nominatim" (default) or "google"
	Rate      float64 // minimum seconds between online calls
	UserAgent string  // identifier sent with online requests
	Language  string  // preferred language for online results
	APIKey    string  // Google provider only
}

// Select returns the backend for cfg.Mode. When the online backend
// cannot initialize, the offline backend is substituted for the whole
// run and the returned warning describes the substitution; the run only
// fails if the offline dataset is unusable too.
func Select(cfg Config, cities []model.City) (Backend, string, error) {
	if cfg.Mode != ModeOnline {
		b, err := NewOffline(cities)
		if err != nil {
			return nil, "", err
		}
		return b, "", nil
	}

	online, err := newOnline(cfg)
	if err == nil {
		return online, "", nil
	}

	off, offErr := NewOffline(cities)
	if offErr != nil {
		return nil, "", fmt.Errorf("online geocoder unavailable (%v); offline fallback unusable: %w", err, offErr)
	}
	warning := fmt.Sprintf("online geocoder unavailable (%v); switching to offline nearest-city lookup", err)
	return off, warning, nil
}

func newOnline(cfg Config) (Backend, error) {
	switch cfg.Provider {
	case "", ProviderNominatim:
		return NewNominatim(cfg)
	case ProviderGoogle:
		return NewGoogle(cfg)
	default:
		return nil, fmt.Errorf("unknown online provider %q", cfg.Provider)
	}
}
