// Package itinerary turns an ordered waypoint stream into a labeled,
// deduplicated, distance-annotated itinerary.
package itinerary

import (
	"context"
	"fmt"
	"os"

	"github.com/Prinsessen/KML-City-Extractor/internal/geocode"
	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// Builder drives the pipeline per waypoint: sampling, per-placemark
// caps, geocoding, distance accumulation, duplicate suppression and row
// assembly. Waypoints are processed strictly in document order; the
// accumulator and filter both carry state across the whole run.
type Builder struct {
	Backend geocode.Backend

	// SampleEvery keeps only waypoints whose 0-based index within their
	// placemark is a multiple of N; the first waypoint of each placemark
	// is always kept. Values <= 1 keep everything.
	SampleEvery int

	// MaxPerPlacemark is a hard truncation: once a placemark has
	// contributed this many considered waypoints, the rest are skipped
	// before geocoding and distance. 0 means unlimited.
	MaxPerPlacemark int

	UniqueOnly   bool    // suppress consecutive duplicate keys
	UniqueOn     KeyMode // dedup key mode; defaults to KeyCity
	GlobalUnique bool    // additionally suppress any previously emitted key

	// Warnf receives per-waypoint geocoding failures. Defaults to stderr.
	Warnf func(format string, args ...any)

	// Progress, when set, is called with (processed, total) as the input
	// stream advances.
	Progress func(done, total int)
}

// Build processes waypoints in document order and returns the emitted
// rows. A canceled context stops the run early and returns the rows
// emitted so far along with the context error.
func (b *Builder) Build(ctx context.Context, waypoints []model.Waypoint) ([]model.ItineraryRow, error) {
	warnf := b.Warnf
	if warnf == nil {
		warnf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	var rows []model.ItineraryRow
	var acc Accumulator
	filter := NewFilter(b.GlobalUnique)
	considered := make(map[string]int)

	for i, wp := range waypoints {
		select {
		case <-ctx.Done():
			return rows, ctx.Err()
		default:
		}
		if b.Progress != nil {
			b.Progress(i, len(waypoints))
		}

		// Sampling and caps apply before any downstream stage sees the
		// waypoint, so skipped points cost no backend calls and add no
		// distance.
		if b.SampleEvery > 1 && wp.Index%b.SampleEvery != 0 {
			continue
		}
		if b.MaxPerPlacemark > 0 && considered[wp.Placemark] >= b.MaxPerPlacemark {
			continue
		}
		considered[wp.Placemark]++

		label, err := b.Backend.Resolve(ctx, wp.Lat, wp.Lon)
		if err != nil {
			// degraded to an empty label for this waypoint only
			warnf("  WARNING: geocoding (%.5f, %.5f): %v", wp.Lat, wp.Lon, err)
		}

		stepKM, cumulativeKM := acc.Step(wp.Lat, wp.Lon)

		if b.UniqueOnly || b.GlobalUnique {
			if !filter.Admit(Key(label, b.keyMode())) {
				continue
			}
		}

		rows = append(rows, model.ItineraryRow{
			Seq:          len(rows),
			Placemark:    wp.Placemark,
			Lat:          wp.Lat,
			Lon:          wp.Lon,
			Label:        label,
			DistanceKM:   stepKM,
			CumulativeKM: cumulativeKM,
		})
	}

	if b.Progress != nil {
		b.Progress(len(waypoints), len(waypoints))
	}
	return rows, nil
}

func (b *Builder) keyMode() KeyMode {
	if b.UniqueOn == "" {
		return KeyCity
	}
	return b.UniqueOn
}

// GroupByPlacemark aggregates emitted rows into per-placemark groups,
// preserving first-appearance order of both placemarks and cities. A
// derived view: no geocoding happens here.
func GroupByPlacemark(rows []model.ItineraryRow) []model.PlacemarkGroup {
	var groups []model.PlacemarkGroup
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, row := range rows {
		gi, ok := index[row.Placemark]
		if !ok {
			gi = len(groups)
			index[row.Placemark] = gi
			groups = append(groups, model.PlacemarkGroup{Placemark: row.Placemark})
			seen[row.Placemark] = make(map[string]bool)
		}

		g := &groups[gi]
		g.RowCount++
		g.TotalKM += row.DistanceKM

		key := Key(row.Label, KeyCityAdminCountry)
		if !seen[row.Placemark][key] {
			seen[row.Placemark][key] = true
			g.Cities = append(g.Cities, row.Label)
		}
	}
	return groups
}
