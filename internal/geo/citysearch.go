package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// citySearchURL points at the city-search endpoint of the weather service,
// used here purely as a geocoding oracle. Tests override it with an
// httptest server.
var citySearchURL = "http://api.weatherapi.com/v1/search.json"

// Candidate is one city-search result. Only the fields used by the
// verification check are declared.
type Candidate struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// CitySearch queries the external city-search service. The check it backs
// is advisory: it exists to catch typos before a city is committed, not to
// do real geocoding.
type CitySearch struct {
	http   *http.Client
	apiKey string
}

// NewCitySearch builds a city-search client with the given API key.
func NewCitySearch(apiKey string) *CitySearch {
	return &CitySearch{
		http:   &http.Client{Timeout: 10 * time.Second},
		apiKey: apiKey,
	}
}

// Search runs a free-text query and returns the raw candidate list.
func (s *CitySearch) Search(ctx context.Context, q string) ([]Candidate, error) {
	u := fmt.Sprintf("%s?%s", citySearchURL, url.Values{
		"key": {s.apiKey},
		"q":   {q},
	}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("city search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("city search: unexpected status %d", resp.StatusCode)
	}
	var out []Candidate
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("city search: decode: %w", err)
	}
	return out, nil
}

// Verify checks whether a city plausibly exists in a country. It queries
// the search service with the candidate city name and accepts the first
// result matching on both fields, returning that result's canonical name.
// ok is false when no candidate matches; err is non-nil only when the
// external call itself fails.
func (s *CitySearch) Verify(ctx context.Context, cityName, countryName string) (matched string, ok bool, err error) {
	candidates, err := s.Search(ctx, cityName)
	if err != nil {
		return "", false, err
	}
	for _, c := range candidates {
		if Matches(c, cityName, countryName) {
			return c.Name, true, nil
		}
	}
	return "", false, nil
}

// Matches applies the verification rule to a single candidate: the
// candidate city name and the input must contain one another (either
// direction), and likewise for the country names. The containment is
// deliberately loose so "Tokyo" matches a candidate named "Tokyo, Japan"
// and abbreviations still pass, but it is case-sensitive.
func Matches(c Candidate, cityName, countryName string) bool {
	cityOK := strings.Contains(c.Name, cityName) || strings.Contains(cityName, c.Name)
	countryOK := strings.Contains(c.Country, countryName) || strings.Contains(countryName, c.Country)
	return cityOK && countryOK
}
