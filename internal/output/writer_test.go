package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

func sampleRows() []model.ItineraryRow {
	return []model.ItineraryRow{
		{
			Seq: 0, Placemark: "Leg 1", Lat: 56.1629, Lon: 10.2039,
			Label:      model.LocationLabel{City: "Aarhus", Admin: "Midtjylland", Country: "DK", Source: model.SourceOffline},
			DistanceKM: 0, CumulativeKM: 0,
		},
		{
			Seq: 1, Placemark: "Leg 1", Lat: 55.6761, Lon: 12.5683,
			Label:      model.LocationLabel{City: "Copenhagen", Admin: "Capital Region", Country: "DK", Source: model.SourceOffline},
			DistanceKM: 156.789, CumulativeKM: 156.789,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return records
}

func TestWriteItinerary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteItinerary(path, sampleRows()); err != nil {
		t.Fatalf("writing itinerary: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	wantHeader := []string{
		"seq", "placemark", "lat", "lon", "city", "admin", "country",
		"distance_km", "cumulative_distance_km",
	}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header column %d: expected %q, got %q", i, col, records[0][i])
		}
	}

	row := records[2]
	if row[0] != "1" || row[1] != "Leg 1" || row[4] != "Copenhagen" {
		t.Errorf("unexpected row: %v", row)
	}
	if row[7] != "156.789" || row[8] != "156.789" {
		t.Errorf("unexpected distance formatting: %v", row[7:])
	}
}

func TestWriteCities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.csv")
	if err := WriteCities(path, sampleRows()); err != nil {
		t.Fatalf("writing cities: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if len(records[0]) != 3 {
		t.Fatalf("cities-only output must not carry coordinates, got %d columns", len(records[0]))
	}
	if records[1][0] != "Aarhus" || records[2][0] != "Copenhagen" {
		t.Errorf("unexpected rows: %v", records[1:])
	}
}

func TestWriteGroups(t *testing.T) {
	groups := []model.PlacemarkGroup{
		{
			Placemark: "Leg 1",
			Cities: []model.LocationLabel{
				{City: "Aarhus", Admin: "Midtjylland", Country: "DK"},
				{City: "Copenhagen", Admin: "Capital Region", Country: "DK"},
			},
			RowCount: 3,
			TotalKM:  156.789,
		},
	}

	path := filepath.Join(t.TempDir(), "groups.csv")
	if err := WriteGroups(path, groups, false); err != nil {
		t.Fatalf("writing groups: %v", err)
	}
	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 city rows, got %d", len(records))
	}
	if records[1][0] != "Leg 1" || records[1][1] != "Aarhus" {
		t.Errorf("unexpected group row: %v", records[1])
	}
}

func TestWriteGroupsWithStats(t *testing.T) {
	groups := []model.PlacemarkGroup{
		{
			Placemark: "Leg 1",
			Cities: []model.LocationLabel{
				{City: "Aarhus"}, {City: "Copenhagen"},
			},
			RowCount: 3,
			TotalKM:  156.789,
		},
	}

	path := filepath.Join(t.TempDir(), "stats.csv")
	if err := WriteGroups(path, groups, true); err != nil {
		t.Fatalf("writing groups: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 2 {
		t.Fatalf("expected header + 1 summary row, got %d", len(records))
	}
	row := records[1]
	if row[0] != "Leg 1" || row[1] != "2" || row[2] != "156.789" {
		t.Errorf("unexpected stats row: %v", row)
	}
	if row[3] != "Aarhus; Copenhagen" {
		t.Errorf("unexpected joined city list: %q", row[3])
	}
}

func TestWriteToBadPath(t *testing.T) {
	if err := WriteItinerary("/nonexistent-dir/out.csv", sampleRows()); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
