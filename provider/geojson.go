package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	DefaultGeoJSONURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"

	geoJSONUpstream = "geojson"
)

// GeoJSON downloads the country boundary FeatureCollection from a fixed URL.
type GeoJSON struct {
	client HTTPClient
	url    string
}

func NewGeoJSON(client HTTPClient, sourceURL string) *GeoJSON {
	if sourceURL == "" {
		sourceURL = DefaultGeoJSONURL
	}
	return &GeoJSON{client: client, url: sourceURL}
}

// Boundaries returns the document exactly as served.
func (g *GeoJSON) Boundaries(ctx context.Context) (json.RawMessage, error) {
	body, err := get(ctx, g.client, geoJSONUpstream, g.url)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: boundary file is not valid JSON", ErrMalformedResponse)
	}
	return json.RawMessage(body), nil
}
