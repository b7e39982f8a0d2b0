package geocode

import (
	"context"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// Offline resolves coordinates by nearest-centroid lookup against a
// preloaded reference dataset of cities. Deterministic, no network.
type Offline struct {
	cities []model.City
	points []orb.Point
}

// NewOffline creates the offline backend. The dataset must be non-empty.
func NewOffline(cities []model.City) (*Offline, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("no reference cities loaded (run import-cities first)")
	}
	points := make([]orb.Point, len(cities))
	for i, c := range cities {
		points[i] = orb.Point{c.Lon, c.Lat}
	}
	return &Offline{cities: cities, points: points}, nil
}

func (o *Offline) Source() string { return model.SourceOffline }

// Resolve returns the label of the nearest reference city. It never
// fails once the backend is constructed.
func (o *Offline) Resolve(_ context.Context, lat, lon float64) (model.LocationLabel, error) {
	p := orb.Point{lon, lat}
	best := 0
	bestDist := math.MaxFloat64
	for i := range o.points {
		if d := geo.DistanceHaversine(p, o.points[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	c := o.cities[best]
	return model.LocationLabel{
		City:    c.Name,
		Admin:   c.Admin,
		Country: c.Country,
		Source:  model.SourceOffline,
	}, nil
}
