package store

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(os.TempDir(), "kml-cities-store-test-"+t.Name())
	os.RemoveAll(dir)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := New(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cities.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test CSV: %v", err)
	}
	return path
}

const sampleCSV = `lat,lon,name,admin1,admin2,cc
48.85341,2.3488,Paris,Ile-de-France,Paris,FR
51.50853,-0.12574,London,England,Greater London,GB
52.52437,13.41053,Berlin,Berlin,,DE
bogus,13.0,Nowhere,,,XX
`

func TestImportAndReadBack(t *testing.T) {
	s := testStore(t)

	n, err := s.ImportCities(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("importing: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 imported cities (malformed row skipped), got %d", n)
	}

	cities, err := s.AllCities()
	if err != nil {
		t.Fatalf("reading cities: %v", err)
	}
	if len(cities) != 3 {
		t.Fatalf("expected 3 cities, got %d", len(cities))
	}

	paris := cities[0]
	if paris.Name != "Paris" || paris.Admin != "Ile-de-France" || paris.Country != "FR" {
		t.Errorf("unexpected first city: %+v", paris)
	}
	if paris.Lat != 48.85341 || paris.Lon != 2.3488 {
		t.Errorf("unexpected Paris coordinates: %+v", paris)
	}

	if s.CityCount() != 3 {
		t.Errorf("expected count 3, got %d", s.CityCount())
	}
	if s.ImportedAt() == "" {
		t.Error("expected imported_at to be recorded")
	}
}

func TestImportReplacesPreviousDataset(t *testing.T) {
	s := testStore(t)

	if _, err := s.ImportCities(writeCSV(t, sampleCSV)); err != nil {
		t.Fatalf("first import: %v", err)
	}

	smaller := "lat,lon,name,admin1,admin2,cc\n55.67594,12.56553,Copenhagen,Capital Region,,DK\n"
	n, err := s.ImportCities(writeCSV(t, smaller))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 city, got %d", n)
	}
	if s.CityCount() != 1 {
		t.Errorf("expected previous dataset replaced, count is %d", s.CityCount())
	}
}

func TestCityCountByCountry(t *testing.T) {
	s := testStore(t)
	if _, err := s.ImportCities(writeCSV(t, sampleCSV)); err != nil {
		t.Fatalf("importing: %v", err)
	}

	byCountry := s.CityCountByCountry()
	if byCountry["FR"] != 1 || byCountry["GB"] != 1 || byCountry["DE"] != 1 {
		t.Errorf("unexpected breakdown: %v", byCountry)
	}
}

func TestImportRejectsMissingColumns(t *testing.T) {
	s := testStore(t)

	if _, err := s.ImportCities(writeCSV(t, "a,b\n1,2\n")); err == nil {
		t.Fatal("expected error for CSV without lat/lon/name columns")
	}
}

func TestImportMissingFile(t *testing.T) {
	s := testStore(t)

	if _, err := s.ImportCities("/nonexistent/cities.csv"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
