package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carlosfiori/country-weather-map/provider"
)

// Reason identifies why a lookup stopped.
type Reason string

const (
	ReasonMissingParameter           Reason = "missing_parameter"
	ReasonCountryNotFound            Reason = "country_not_found"
	ReasonNoCountryData              Reason = "no_country_data"
	ReasonCapitalNotFound            Reason = "capital_not_found"
	ReasonCapitalCoordinatesNotFound Reason = "capital_coordinates_not_found"
	ReasonWeatherNotFound            Reason = "weather_not_found"
	ReasonCountriesNotFound          Reason = "countries_not_found"
	ReasonBoundariesNotFound         Reason = "boundaries_not_found"
	ReasonUpstreamUnavailable        Reason = "upstream_unavailable"
	ReasonUpstreamTimeout            Reason = "upstream_timeout"
	ReasonCanceled                   Reason = "request_canceled"
)

// StatusClientClosedRequest is reported when the caller went away before the
// lookup finished.
const StatusClientClosedRequest = 499

type outcome struct {
	status  int
	message string
}

var outcomes = map[Reason]outcome{
	ReasonMissingParameter:           {http.StatusBadRequest, "No country provided"},
	ReasonCountryNotFound:            {http.StatusNotFound, "Country not found"},
	ReasonNoCountryData:              {http.StatusNotFound, "No data for the country"},
	ReasonCapitalNotFound:            {http.StatusNotFound, "Capital not found"},
	ReasonCapitalCoordinatesNotFound: {http.StatusNotFound, "Capital coordinates not found"},
	ReasonWeatherNotFound:            {http.StatusNotFound, "Weather data not found"},
	ReasonCountriesNotFound:          {http.StatusNotFound, "Country data not found"},
	ReasonBoundariesNotFound:         {http.StatusNotFound, "Country data not found"},
	ReasonUpstreamUnavailable:        {http.StatusBadGateway, "Upstream service unavailable"},
	ReasonUpstreamTimeout:            {http.StatusGatewayTimeout, "Upstream service timed out"},
	ReasonCanceled:                   {StatusClientClosedRequest, "Request canceled"},
}

// Error is a terminal lookup failure. Two Errors match under errors.Is when
// their reasons are equal, so the Err* values below work as sentinels.
type Error struct {
	Reason Reason
	Err    error
}

var (
	ErrMissingParameter           = &Error{Reason: ReasonMissingParameter}
	ErrCountryNotFound            = &Error{Reason: ReasonCountryNotFound}
	ErrNoCountryData              = &Error{Reason: ReasonNoCountryData}
	ErrCapitalNotFound            = &Error{Reason: ReasonCapitalNotFound}
	ErrCapitalCoordinatesNotFound = &Error{Reason: ReasonCapitalCoordinatesNotFound}
	ErrWeatherNotFound            = &Error{Reason: ReasonWeatherNotFound}
	ErrCountriesNotFound          = &Error{Reason: ReasonCountriesNotFound}
	ErrBoundariesNotFound         = &Error{Reason: ReasonBoundariesNotFound}
	ErrUpstreamUnavailable        = &Error{Reason: ReasonUpstreamUnavailable}
	ErrUpstreamTimeout            = &Error{Reason: ReasonUpstreamTimeout}
	ErrCanceled                   = &Error{Reason: ReasonCanceled}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

// Status is the HTTP status the failure is reported with.
func (e *Error) Status() int {
	if o, ok := outcomes[e.Reason]; ok {
		return o.status
	}
	return http.StatusInternalServerError
}

// Message is the client-facing text.
func (e *Error) Message() string {
	if o, ok := outcomes[e.Reason]; ok {
		return o.message
	}
	return "internal error"
}

func fail(reason Reason, err error) *Error {
	return &Error{Reason: reason, Err: err}
}

// upstreamFailure classifies a provider error. Transport faults get their own
// reasons; everything else (bad status, bad payload) becomes notFound.
func upstreamFailure(notFound Reason, err error) *Error {
	switch {
	case errors.Is(err, provider.ErrTimeout):
		return fail(ReasonUpstreamTimeout, err)
	case errors.Is(err, provider.ErrUnavailable):
		return fail(ReasonUpstreamUnavailable, err)
	case errors.Is(err, context.Canceled):
		return fail(ReasonCanceled, err)
	default:
		return fail(notFound, err)
	}
}
