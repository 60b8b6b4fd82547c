package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/carlosfiori/country-weather-map/provider"
	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesReason(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("handler: %w", fail(ReasonCapitalNotFound, cause))

	assert.ErrorIs(t, err, ErrCapitalNotFound)
	assert.NotErrorIs(t, err, ErrCountryNotFound)
	assert.ErrorIs(t, err, cause)
}

func TestError_Text(t *testing.T) {
	assert.Equal(t, "no_country_data", fail(ReasonNoCountryData, nil).Error())
	assert.Equal(t, "weather_not_found: boom", fail(ReasonWeatherNotFound, errors.New("boom")).Error())
}

func TestError_UnknownReason(t *testing.T) {
	err := &Error{Reason: "something_else"}

	assert.Equal(t, http.StatusInternalServerError, err.Status())
	assert.Equal(t, "internal error", err.Message())
}

func TestUpstreamFailure(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Reason
	}{
		{"bad status", &provider.StatusError{StatusCode: http.StatusNotFound}, ReasonCountryNotFound},
		{"malformed", provider.ErrMalformedResponse, ReasonCountryNotFound},
		{"unavailable", fmt.Errorf("x: %w", provider.ErrUnavailable), ReasonUpstreamUnavailable},
		{"timeout", fmt.Errorf("x: %w", provider.ErrTimeout), ReasonUpstreamTimeout},
		{"caller canceled", fmt.Errorf("x: %w", context.Canceled), ReasonCanceled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := upstreamFailure(ReasonCountryNotFound, tc.err)
			assert.Equal(t, tc.want, got.Reason)
			assert.ErrorIs(t, got, tc.err)
		})
	}
}
