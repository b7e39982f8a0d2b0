// Package kml extracts ordered waypoints from KML documents.
//
// Placemark LineString, Point and gx:Track geometries are supported.
// Coordinates come out as a flat list following the order placemarks
// appear in the file; within one placemark, LineString vertices come
// first, then Points, then gx:Track samples.
package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// ParseFile reads a KML file and returns its waypoints in document order.
func ParseFile(path string) ([]model.Waypoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening KML: %w", err)
	}
	defer f.Close()

	wps, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return wps, nil
}

// Parse decodes a KML document from r and returns its waypoints.
//
// Placemarks are visited in document order regardless of how deeply
// Folder and Document containers nest or interleave, so the waypoint
// stream follows the file top to bottom.
func Parse(r io.Reader) ([]model.Waypoint, error) {
	d := xml.NewDecoder(r)
	w := &walker{indices: make(map[string]int)}

	sawRoot := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding KML: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			if se.Name.Local != "kml" {
				return nil, fmt.Errorf("decoding KML: unexpected root element <%s>", se.Name.Local)
			}
			sawRoot = true
			continue
		}
		if se.Name.Local != "Placemark" {
			continue
		}
		var pm placemark
		if err := d.DecodeElement(&pm, &se); err != nil {
			return nil, fmt.Errorf("decoding KML: %w", err)
		}
		w.placemark(pm)
	}
	if !sawRoot {
		return nil, fmt.Errorf("decoding KML: no <kml> root element")
	}
	return w.out, nil
}

type walker struct {
	out     []model.Waypoint
	indices map[string]int // next 0-based index per placemark name
	auto    int            // counter for naming anonymous placemarks
}

func (w *walker) placemark(pm placemark) {
	name := strings.TrimSpace(pm.Name)
	if name == "" {
		name = fmt.Sprintf("placemark_%d", w.auto)
	}
	w.auto++

	for _, ls := range pm.lineStrings() {
		for _, c := range parseCoordinates(ls.Coordinates) {
			w.add(name, c)
		}
	}
	for _, pt := range pm.points() {
		for _, c := range parseCoordinates(pt.Coordinates) {
			w.add(name, c)
		}
	}
	for _, tr := range pm.tracks() {
		for _, raw := range tr.Coords {
			if c, ok := parseTrackCoord(raw); ok {
				w.add(name, c)
			}
		}
	}
}

func (w *walker) add(name string, c coord) {
	idx := w.indices[name]
	w.indices[name] = idx + 1
	w.out = append(w.out, model.Waypoint{
		Placemark: name,
		Index:     idx,
		Lat:       c.lat,
		Lon:       c.lon,
	})
}

type coord struct {
	lat, lon float64
}

// parseCoordinates splits a kml:coordinates blob into valid coordinates.
// Tokens are "lon,lat[,alt]" separated by whitespace; malformed or
// out-of-range tokens are skipped.
func parseCoordinates(text string) []coord {
	var out []coord
	for _, tok := range strings.Fields(text) {
		parts := strings.Split(tok, ",")
		if len(parts) < 2 {
			continue
		}
		if c, ok := makeCoord(parts[0], parts[1]); ok {
			out = append(out, c)
		}
	}
	return out
}

// parseTrackCoord parses a gx:coord element ("lon lat [alt]", space-separated).
func parseTrackCoord(text string) (coord, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return coord{}, false
	}
	return makeCoord(parts[0], parts[1])
}

func makeCoord(lonStr, latStr string) (coord, bool) {
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return coord{}, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return coord{}, false
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return coord{}, false
	}
	return coord{lat: lat, lon: lon}, true
}

// Unqualified field names below match elements regardless of namespace,
// so gx:Track and gx:coord decode without naming the gx namespace.

type placemark struct {
	Name          string         `xml:"name"`
	LineStrings   []geometry     `xml:"LineString"`
	Points        []geometry     `xml:"Point"`
	Tracks        []track        `xml:"Track"`
	MultiGeometry *multiGeometry `xml:"MultiGeometry"`
}

type multiGeometry struct {
	LineStrings []geometry `xml:"LineString"`
	Points      []geometry `xml:"Point"`
	Tracks      []track    `xml:"Track"`
}

func (pm placemark) lineStrings() []geometry {
	if pm.MultiGeometry != nil {
		return append(pm.LineStrings, pm.MultiGeometry.LineStrings...)
	}
	return pm.LineStrings
}

func (pm placemark) points() []geometry {
	if pm.MultiGeometry != nil {
		return append(pm.Points, pm.MultiGeometry.Points...)
	}
	return pm.Points
}

func (pm placemark) tracks() []track {
	if pm.MultiGeometry != nil {
		return append(pm.Tracks, pm.MultiGeometry.Tracks...)
	}
	return pm.Tracks
}

type geometry struct {
	Coordinates string `xml:"coordinates"`
}

type track struct {
	Coords []string `xml:"coord"`
}
