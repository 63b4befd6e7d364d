// Package geo contains clients for the two external REST services the
// application depends on: the country directory (names and currencies) and
// the city-search service used to verify that a city exists. Both are
// consumed read-only; neither client retries, so a failure surfaces to the
// caller exactly once per request.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avelar/traveler-tracker/internal/config"
)

// countriesURL points at the directory endpoint returning every country
// with its name and currencies. Tests override it with an httptest server.
var countriesURL = "https://restcountries.com/v2/all?fields=name,currencies"

// DirectoryCountry is one entry of the external country directory response.
// Only the fields the application reads are declared.
type DirectoryCountry struct {
	Name       string `json:"name"`
	Currencies []struct {
		Code string `json:"code"`
	} `json:"currencies"`
}

// CountryDirectory fetches the external country listing. The full listing
// is identical for every traveler, so the raw response body is cached in
// Redis under a single key when a client is available; with a nil Redis
// client every call goes to the external service.
type CountryDirectory struct {
	http  *http.Client
	cache *redis.Client
	cfg   config.CacheConfig
}

// NewCountryDirectory builds a directory client. rdb may be nil, in which
// case caching is disabled.
func NewCountryDirectory(rdb *redis.Client, cfg config.CacheConfig) *CountryDirectory {
	return &CountryDirectory{
		http:  &http.Client{Timeout: 10 * time.Second},
		cache: rdb,
		cfg:   cfg,
	}
}

// fetchAll returns the decoded directory listing, serving from the Redis
// cache when possible. Cache errors are logged and treated as misses so a
// Redis outage never breaks the listing itself.
func (d *CountryDirectory) fetchAll(ctx context.Context) ([]DirectoryCountry, error) {
	key := d.cfg.Prefix + ":v2:all"

	if d.cache != nil && d.cfg.Enabled {
		if bs, err := d.cache.Get(ctx, key).Bytes(); err == nil && len(bs) > 0 {
			var cached []DirectoryCountry
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
			// Corrupt cache entry: fall through to a live fetch.
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, countriesURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("country directory: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("country directory: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("country directory: read body: %w", err)
	}
	var out []DirectoryCountry
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("country directory: decode: %w", err)
	}

	if d.cache != nil && d.cfg.Enabled {
		if err := d.cache.Set(ctx, key, body, d.cfg.TTL).Err(); err != nil {
			log.Printf("country-directory: cache set failed: %v", err)
		}
	}
	return out, nil
}

// ListNames returns every country name in the directory, in directory
// order. Forms use it to populate their country selects.
func (d *CountryDirectory) ListNames(ctx context.Context) ([]string, error) {
	all, err := d.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	return names, nil
}

// LookupCurrency scans the directory for an exact name match and returns
// the first listed currency code. A country without a match or without
// currencies yields an empty code and no error; only a failed fetch is an
// error.
func (d *CountryDirectory) LookupCurrency(ctx context.Context, countryName string) (string, error) {
	all, err := d.fetchAll(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range all {
		if c.Name == countryName {
			if len(c.Currencies) > 0 {
				return c.Currencies[0].Code, nil
			}
			return "", nil
		}
	}
	return "", nil
}
