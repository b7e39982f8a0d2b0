// Package output writes the computed itinerary tables as CSV.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// WriteItinerary writes the main itinerary table.
func WriteItinerary(path string, rows []model.ItineraryRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{
		"seq", "placemark", "lat", "lon", "city", "admin", "country",
		"distance_km", "cumulative_distance_km",
	})
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Seq),
			r.Placemark,
			formatCoord(r.Lat),
			formatCoord(r.Lon),
			r.Label.City,
			r.Label.Admin,
			r.Label.Country,
			formatKM(r.DistanceKM),
			formatKM(r.CumulativeKM),
		})
	}
	return writeCSV(path, records)
}

// WriteCities writes the cities-only projection: label fields per
// emitted row, no coordinates.
func WriteCities(path string, rows []model.ItineraryRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"city", "admin", "country"})
	for _, r := range rows {
		records = append(records, []string{r.Label.City, r.Label.Admin, r.Label.Country})
	}
	return writeCSV(path, records)
}

// WriteGroups writes the per-placemark grouped view. Without stats, one
// row per (placemark, distinct city); with stats, one summary row per
// placemark.
func WriteGroups(path string, groups []model.PlacemarkGroup, stats bool) error {
	var records [][]string
	if stats {
		records = append(records, []string{"placemark", "distinct_cities", "total_distance_km", "cities"})
		for _, g := range groups {
			names := make([]string, 0, len(g.Cities))
			for _, c := range g.Cities {
				names = append(names, c.City)
			}
			records = append(records, []string{
				g.Placemark,
				strconv.Itoa(len(g.Cities)),
				formatKM(g.TotalKM),
				strings.Join(names, "; "),
			})
		}
	} else {
		records = append(records, []string{"placemark", "city", "admin", "country"})
		for _, g := range groups {
			for _, c := range g.Cities {
				records = append(records, []string{g.Placemark, c.City, c.Admin, c.Country})
			}
		}
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatKM(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
