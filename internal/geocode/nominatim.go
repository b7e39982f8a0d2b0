package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org"

// maxAttempts bounds retries for a single online lookup. Exhausting it
// degrades that one waypoint to an empty label; the run continues.
const maxAttempts = 3

// Nominatim reverse-geocodes through the OSM Nominatim service,
// throttled to the configured minimum interval between requests per the
// service's usage policy.
type Nominatim struct {
	BaseURL    string
	HTTPClient *http.Client

	limiter   *RateLimiter
	cache     *labelCache
	userAgent string
	language  string
}

// NewNominatim creates the Nominatim backend. A user agent is required
// by the service's usage policy.
func NewNominatim(cfg Config) (*Nominatim, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("nominatim requires a user agent (set --user-agent)")
	}
	return &Nominatim{
		BaseURL:    nominatimBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    NewRateLimiter(cfg.Rate),
		cache:      newLabelCache(),
		userAgent:  cfg.UserAgent,
		language:   cfg.Language,
	}, nil
}

func (n *Nominatim) Source() string { return model.SourceOnline }

// Resolve reverse-geocodes one coordinate, retrying transient failures
// up to maxAttempts before giving up on that waypoint.
func (n *Nominatim) Resolve(ctx context.Context, lat, lon float64) (model.LocationLabel, error) {
	key := cacheKey(lat, lon)
	if label, ok := n.cache.get(key); ok {
		return label, nil
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := n.limiter.Wait(ctx); err != nil {
			return model.LocationLabel{Source: model.SourceOnline}, err
		}
		label, err := n.reverse(ctx, lat, lon)
		if err == nil {
			n.cache.set(key, label)
			return label, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return model.LocationLabel{Source: model.SourceOnline},
		fmt.Errorf("reverse geocoding (%.5f, %.5f) failed after %d attempts: %w", lat, lon, maxAttempts, lastErr)
}

func (n *Nominatim) reverse(ctx context.Context, lat, lon float64) (model.LocationLabel, error) {
	params := url.Values{
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format": {"jsonv2"},
	}
	if n.language != "" {
		params.Set("accept-language", n.language)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", n.BaseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return model.LocationLabel{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return model.LocationLabel{}, fmt.Errorf("fetching reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return model.LocationLabel{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var data struct {
		Address struct {
			City         string `json:"city"`
			Town         string `json:"town"`
			Village      string `json:"village"`
			Municipality string `json:"municipality"`
			Hamlet       string `json:"hamlet"`
			State        string `json:"state"`
			Region       string `json:"region"`
			Country      string `json:"country"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.LocationLabel{}, fmt.Errorf("parsing response: %w", err)
	}

	adr := data.Address
	return model.LocationLabel{
		City:    firstNonEmpty(adr.City, adr.Town, adr.Village, adr.Municipality, adr.Hamlet),
		Admin:   firstNonEmpty(adr.State, adr.Region),
		Country: adr.Country,
		Source:  model.SourceOnline,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
