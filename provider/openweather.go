package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

	openWeatherUpstream = "openweathermap"
	metricUnits         = "metric"
)

// OpenWeather fetches current conditions from OpenWeatherMap.
type OpenWeather struct {
	client  HTTPClient
	baseURL string
	apiKey  string
}

func NewOpenWeather(client HTTPClient, baseURL, apiKey string) *OpenWeather {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeather{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// CurrentWeather returns the provider's JSON for the given point, untouched.
func (o *OpenWeather) CurrentWeather(ctx context.Context, coords Coordinates) (json.RawMessage, error) {
	reqURL, err := url.Parse(o.baseURL + "/weather")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("appid", o.apiKey)
	query.Set("units", metricUnits)
	reqURL.RawQuery = query.Encode()

	body, err := get(ctx, o.client, openWeatherUpstream, reqURL.String())
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: openweathermap returned invalid JSON", ErrMalformedResponse)
	}
	return json.RawMessage(body), nil
}
