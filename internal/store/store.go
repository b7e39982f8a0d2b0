// Package store manages the offline city reference dataset via DuckDB.
package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// Store holds the city centroid table used by offline geocoding.
type Store struct {
	DB      *sql.DB
	DataDir string
}

// New opens (or creates) a DuckDB database in the given data directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cities.duckdb")
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db, DataDir: dataDir}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	if _, err := s.DB.Exec("CREATE SEQUENCE IF NOT EXISTS cities_seq"); err != nil {
		return fmt.Errorf("creating sequence: %w", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cities (
			id INTEGER PRIMARY KEY DEFAULT nextval('cities_seq'),
			name TEXT NOT NULL,
			admin TEXT,
			country TEXT,
			lat DOUBLE NOT NULL,
			lon DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

// ImportCities replaces the reference dataset with the contents of a
// headered CSV in the reverse_geocoder distribution layout
// (lat,lon,name,admin1,admin2,cc). Returns the number of cities loaded;
// malformed rows are skipped.
func (s *Store) ImportCities(csvPath string) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("opening cities CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"lat", "lon", "name"} {
		if _, ok := cols[required]; !ok {
			return 0, fmt.Errorf("cities CSV missing %q column", required)
		}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cities"); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare("INSERT INTO cities (name, admin, country, lat, lon) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	field := func(rec []string, name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return rec[i]
		}
		return ""
	}

	n := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading cities CSV: %w", err)
		}

		lat, latErr := strconv.ParseFloat(field(rec, "lat"), 64)
		lon, lonErr := strconv.ParseFloat(field(rec, "lon"), 64)
		name := field(rec, "name")
		if latErr != nil || lonErr != nil || name == "" {
			continue
		}

		if _, err := stmt.Exec(name, field(rec, "admin1"), field(rec, "cc"), lat, lon); err != nil {
			return 0, fmt.Errorf("inserting city %q: %w", name, err)
		}
		n++
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('imported_at', ?)", now); err != nil {
		return 0, err
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('source', ?)", csvPath); err != nil {
		return 0, err
	}

	return n, tx.Commit()
}

// AllCities loads the full reference dataset in import order.
func (s *Store) AllCities() ([]model.City, error) {
	rows, err := s.DB.Query("SELECT name, admin, country, lat, lon FROM cities ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []model.City
	for rows.Next() {
		var c model.City
		var admin, country sql.NullString
		if err := rows.Scan(&c.Name, &admin, &country, &c.Lat, &c.Lon); err != nil {
			return nil, err
		}
		c.Admin = admin.String
		c.Country = country.String
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// CityCount returns the number of loaded reference cities.
func (s *Store) CityCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM cities").Scan(&n)
	return n
}

// CityCountByCountry returns reference city counts per country code.
func (s *Store) CityCountByCountry() map[string]int {
	m := make(map[string]int)
	rows, err := s.DB.Query("SELECT country, COUNT(*) FROM cities GROUP BY country ORDER BY country")
	if err != nil {
		return m
	}
	defer rows.Close()
	for rows.Next() {
		var country sql.NullString
		var cnt int
		rows.Scan(&country, &cnt)
		m[country.String] = cnt
	}
	return m
}

// ImportedAt returns when the dataset was last imported, if ever.
func (s *Store) ImportedAt() string {
	var v sql.NullString
	s.DB.QueryRow("SELECT value FROM meta WHERE key = 'imported_at'").Scan(&v)
	return v.String
}
