package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const franceRecord = `[{"name":{"common":"France","official":"French Republic"},"capital":["Paris"],` +
	`"capitalInfo":{"latlng":[48.87,2.33]},"latlng":[46.0,2.0]}]`

func newTestRestCountries(t *testing.T, handler http.HandlerFunc) *RestCountries {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRestCountries(server.Client(), server.URL)
}

func TestRestCountries_ByName_Success(t *testing.T) {
	client := newTestRestCountries(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/name/France", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		fmt.Fprintln(w, franceRecord)
	})

	countries, err := client.ByName(context.Background(), "France")

	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "France", countries[0].Name.Common)
	assert.Equal(t, []string{"Paris"}, countries[0].Capital)
	assert.Equal(t, []float64{48.87, 2.33}, countries[0].CapitalInfo.LatLng)
	assert.Equal(t, []float64{46.0, 2.0}, countries[0].LatLng)
}

func TestRestCountries_ByName_EscapesName(t *testing.T) {
	client := newTestRestCountries(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/name/United%20States", r.URL.EscapedPath())
		fmt.Fprintln(w, `[]`)
	})

	countries, err := client.ByName(context.Background(), "United States")

	require.NoError(t, err)
	assert.Empty(t, countries)
}

func TestRestCountries_ByName_NotFound(t *testing.T) {
	client := newTestRestCountries(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, `{"status": 404, "message": "Not Found"}`)
	})

	_, err := client.ByName(context.Background(), "Atlantis")

	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "restcountries", statusErr.Upstream)
}

func TestRestCountries_ByName_InvalidJSON(t *testing.T) {
	client := newTestRestCountries(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `[{"name": "France"`)
	})

	_, err := client.ByName(context.Background(), "France")

	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "failed to decode restcountries response")
}

func TestRestCountries_ByName_ContextTimeout(t *testing.T) {
	client := newTestRestCountries(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ByName(ctx, "France")

	require.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

func TestRestCountries_ByName_CallerCanceled(t *testing.T) {
	client := newTestRestCountries(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	defer cancel()

	_, err := client.ByName(ctx, "France")

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRestCountries_ByName_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewRestCountries(&http.Client{}, baseURL)
	_, err := client.ByName(context.Background(), "France")

	require.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRestCountries_All(t *testing.T) {
	client := newTestRestCountries(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/all", r.URL.Path)
		assert.Equal(t, "name,capital,capitalInfo,latlng", r.URL.Query().Get("fields"))
		fmt.Fprintln(w, `[{"name":{"common":"Peru"}},{"name":{"common":"Chile"}}]`)
	})

	countries, err := client.All(context.Background())

	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "Peru", countries[0].Name.Common)
	assert.Equal(t, "Chile", countries[1].Name.Common)
}

func TestNewRestCountries_DefaultBaseURL(t *testing.T) {
	client := NewRestCountries(http.DefaultClient, "")
	assert.Equal(t, DefaultRestCountriesBaseURL, client.baseURL)

	client = NewRestCountries(http.DefaultClient, "http://mirror.local/v3.1/")
	assert.Equal(t, "http://mirror.local/v3.1", client.baseURL)
}

func TestCountry_Accessors(t *testing.T) {
	testCases := []struct {
		name       string
		country    Country
		capital    string
		hasCapital bool
		coords     Coordinates
		hasCoords  bool
	}{
		{
			name: "complete record",
			country: Country{
				Capital:     []string{"Bern"},
				CapitalInfo: CapitalInfo{LatLng: []float64{46.92, 7.47}},
				LatLng:      []float64{47, 8},
			},
			capital: "Bern", hasCapital: true,
			coords: Coordinates{Latitude: 46.92, Longitude: 7.47}, hasCoords: true,
		},
		{
			name:    "no capital",
			country: Country{Capital: []string{}},
		},
		{
			name:    "blank capital",
			country: Country{Capital: []string{""}, CapitalInfo: CapitalInfo{LatLng: []float64{1}}},
		},
		{
			name:       "capital without coordinates",
			country:    Country{Capital: []string{"Ngerulmud"}},
			capital:    "Ngerulmud",
			hasCapital: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			capital, ok := tc.country.PrimaryCapital()
			assert.Equal(t, tc.hasCapital, ok)
			assert.Equal(t, tc.capital, capital)

			coords, ok := tc.country.CapitalCoordinates()
			assert.Equal(t, tc.hasCoords, ok)
			assert.Equal(t, tc.coords, coords)
		})
	}
}
