package itinerary

import (
	"strings"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// KeyMode selects which label fields form the dedup key.
type KeyMode string

const (
	KeyCity             KeyMode = "city"
	KeyCityAdminCountry KeyMode = "city_admin_country"
)

// Valid reports whether m names a known key mode.
func (m KeyMode) Valid() bool {
	return m == KeyCity || m == KeyCityAdminCountry
}

// Key projects a label onto the configured composite dedup key. Fields
// are trimmed and lowercased so formatting differences don't defeat
// suppression. An empty city is a comparable value of its own, so runs
// of unresolved waypoints collapse together.
func Key(label model.LocationLabel, mode KeyMode) string {
	if mode == KeyCity {
		return norm(label.City)
	}
	return norm(label.City) + "\x1f" + norm(label.Admin) + "\x1f" + norm(label.Country)
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Filter suppresses rows whose key matches the immediately preceding
// admitted row, and, in global mode, any key admitted earlier in the
// run. Admission updates the filter state; suppression leaves it
// untouched, so a round trip through other cities always re-admits.
type Filter struct {
	lastKey string
	hasLast bool
	seen    map[string]bool // non-nil when global-unique is enabled
}

// NewFilter creates a consecutive-duplicate filter; global additionally
// enables run-wide uniqueness.
func NewFilter(global bool) *Filter {
	f := &Filter{}
	if global {
		f.seen = make(map[string]bool)
	}
	return f
}

// Admit reports whether a row with this key should be emitted.
func (f *Filter) Admit(key string) bool {
	if f.seen != nil && f.seen[key] {
		return false
	}
	if f.hasLast && key == f.lastKey {
		return false
	}
	f.lastKey, f.hasLast = key, true
	if f.seen != nil {
		f.seen[key] = true
	}
	return true
}
