package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// LatLng is a resolved coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves a free-form address into coordinates. A nil result with
// a nil error means the address could not be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*LatLng, error)
}

// HTTPGeocoder calls a Nominatim-compatible search endpoint and caches
// results in Redis keyed by normalized address.
type HTTPGeocoder struct {
	BaseURL  string
	Client   *http.Client
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewHTTPGeocoder constructs a geocoder with a bounded request timeout.
func NewHTTPGeocoder(baseURL string, cache *redis.Client, logger *zap.Logger) *HTTPGeocoder {
	return &HTTPGeocoder{
		BaseURL:  baseURL,
		Client:   &http.Client{Timeout: 5 * time.Second},
		Cache:    cache,
		CacheTTL: 24 * time.Hour,
		Logger:   logger,
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Geocode resolves an address, consulting the cache first.
func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (*LatLng, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	key := cacheKey(address)
	if g.Cache != nil {
		if cached, err := g.Cache.Get(ctx, key).Result(); err == nil {
			var loc LatLng
			if err := json.Unmarshal([]byte(cached), &loc); err == nil {
				return &loc, nil
			}
		}
	}

	reqURL := fmt.Sprintf("%s?format=json&limit=1&q=%s", g.BaseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error building geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		g.Logger.Warn("Geocoding request failed", zap.String("address", address), zap.Error(err))
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.Logger.Warn("Geocoding API returned non-OK status",
			zap.String("address", address), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("geocode API status %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("error decoding geocode response: %w", err)
	}
	if len(results) == 0 {
		// Unresolvable address: not an error, the caller decides policy.
		return nil, nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return nil, fmt.Errorf("geocode API returned malformed coordinates for %q", address)
	}
	loc := &LatLng{Lat: lat, Lng: lng}

	if g.Cache != nil {
		if data, err := json.Marshal(loc); err == nil {
			if err := g.Cache.Set(ctx, key, data, g.CacheTTL).Err(); err != nil {
				g.Logger.Warn("Failed to cache geocode result", zap.String("address", address), zap.Error(err))
			}
		}
	}
	return loc, nil
}
