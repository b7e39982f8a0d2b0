package geocode

import (
	"fmt"
	"sync"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

// labelCache memoizes resolved labels for repeated coordinates within a
// single run, so dense tracks that idle in one spot don't hammer the
// online service. Entries live for the whole process; no expiry needed.
type labelCache struct {
	mu    sync.RWMutex
	items map[string]model.LocationLabel
}

func newLabelCache() *labelCache {
	return &labelCache{items: make(map[string]model.LocationLabel)}
}

// cacheKey rounds to ~1m precision so float noise doesn't defeat the cache.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.5f,%.5f", lat, lon)
}

func (c *labelCache) get(key string) (model.LocationLabel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	label, ok := c.items[key]
	return label, ok
}

func (c *labelCache) set(key string, label model.LocationLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = label
}
