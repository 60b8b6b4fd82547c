package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultRestCountriesBaseURL = "https://restcountries.com/v3.1"

	restCountriesUpstream = "restcountries"
	// The public API rejects /all without a field filter.
	allCountriesFields = "name,capital,capitalInfo,latlng"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type CountryName struct {
	Common string `json:"common"`
}

type CapitalInfo struct {
	LatLng []float64 `json:"latlng"`
}

// Country is the part of a RestCountries record this service reads.
type Country struct {
	Name        CountryName `json:"name"`
	Capital     []string    `json:"capital"`
	CapitalInfo CapitalInfo `json:"capitalInfo"`
	LatLng      []float64   `json:"latlng"`
}

// PrimaryCapital returns the first listed capital.
func (c Country) PrimaryCapital() (string, bool) {
	if len(c.Capital) == 0 || c.Capital[0] == "" {
		return "", false
	}
	return c.Capital[0], true
}

// CapitalCoordinates returns the location of the primary capital.
func (c Country) CapitalCoordinates() (Coordinates, bool) {
	return pair(c.CapitalInfo.LatLng)
}

func pair(latlng []float64) (Coordinates, bool) {
	if len(latlng) != 2 {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: latlng[0], Longitude: latlng[1]}, true
}

// RestCountries talks to the REST Countries v3.1 API.
type RestCountries struct {
	client  HTTPClient
	baseURL string
}

func NewRestCountries(client HTTPClient, baseURL string) *RestCountries {
	if baseURL == "" {
		baseURL = DefaultRestCountriesBaseURL
	}
	return &RestCountries{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ByName returns every record the API matches for name, in API order.
// Matching rules (case, partial names) are the upstream's.
func (c *RestCountries) ByName(ctx context.Context, name string) ([]Country, error) {
	requestURL := fmt.Sprintf("%s/name/%s", c.baseURL, url.PathEscape(name))
	return c.fetch(ctx, requestURL)
}

// All returns every country known to the API.
func (c *RestCountries) All(ctx context.Context) ([]Country, error) {
	requestURL := fmt.Sprintf("%s/all?fields=%s", c.baseURL, allCountriesFields)
	return c.fetch(ctx, requestURL)
}

func (c *RestCountries) fetch(ctx context.Context, requestURL string) ([]Country, error) {
	body, err := get(ctx, c.client, restCountriesUpstream, requestURL)
	if err != nil {
		return nil, err
	}

	var countries []Country
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, fmt.Errorf("%w: failed to decode restcountries response: %w", ErrMalformedResponse, err)
	}
	return countries, nil
}
