package model

// Waypoint is a single coordinate sample belonging to a placemark,
// in document order.
type Waypoint struct {
	Placemark string  `json:"placemark"`
	Index     int     `json:"index"` // 0-based position within the placemark
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Label sources record which geocoding backend produced a result.
const (
	SourceOnline  = "online"
	SourceOffline = "offline"
)

// LocationLabel is the result of reverse-geocoding one coordinate.
// Any of the place fields may be empty when the backend could not
// resolve them.
type LocationLabel struct {
	City    string `json:"city"`
	Admin   string `json:"admin"`
	Country string `json:"country"`
	Source  string `json:"source"` // "online" or "offline"
}

// ItineraryRow is one emitted row of the computed itinerary.
type ItineraryRow struct {
	Seq          int           `json:"seq"` // global ordinal across the run
	Placemark    string        `json:"placemark"`
	Lat          float64       `json:"lat"`
	Lon          float64       `json:"lon"`
	Label        LocationLabel `json:"label"`
	DistanceKM   float64       `json:"distance_km"`
	CumulativeKM float64       `json:"cumulative_distance_km"`
}

// City is one reference city centroid from the offline dataset.
type City struct {
	Name    string  `json:"name"`
	Admin   string  `json:"admin"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// PlacemarkGroup aggregates the emitted rows of one placemark.
type PlacemarkGroup struct {
	Placemark string          `json:"placemark"`
	Cities    []LocationLabel `json:"cities"` // distinct labels in first-visit order
	RowCount  int             `json:"row_count"`
	TotalKM   float64         `json:"total_distance_km"`
}
