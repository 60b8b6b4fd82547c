package lookup

import (
	"context"
	"encoding/json"

	"github.com/carlosfiori/country-weather-map/provider"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// weatherLookup is the state threaded through the weather chain. Each step
// reads what earlier steps filled in and sets its own field.
type weatherLookup struct {
	name    string
	country provider.Country
	capital string
	coords  provider.Coordinates
	report  json.RawMessage
}

type step struct {
	name string
	run  func(ctx context.Context, l *weatherLookup) *Error
}

func (s *Service) weatherChain() []step {
	return []step{
		{name: "require-country", run: requireCountry},
		{name: "resolve-country", run: s.resolveCountry},
		{name: "select-capital", run: selectCapital},
		{name: "locate-capital", run: locateCapital},
		{name: "fetch-weather", run: s.fetchWeather},
	}
}

// Weather resolves country to its capital and returns the current weather
// there as the provider's JSON. The first failing step ends the lookup; the
// weather provider is only called once every earlier step has succeeded.
func (s *Service) Weather(ctx context.Context, country string) (json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, "lookup: weather")
	defer span.End()
	span.SetAttributes(attribute.String("country", country))

	l := &weatherLookup{name: country}
	for _, st := range s.weatherChain() {
		if err := s.runStep(ctx, st, l); err != nil {
			s.log.Debug().
				Str("country", country).
				Str("step", st.name).
				Str("reason", string(err.Reason)).
				Err(err.Err).
				Msg("weather lookup stopped")
			return nil, s.spanFailure(span, err)
		}
	}

	span.SetStatus(codes.Ok, "")
	return l.report, nil
}

func (s *Service) runStep(ctx context.Context, st step, l *weatherLookup) *Error {
	ctx, span := s.tracer.Start(ctx, "lookup: "+st.name)
	defer span.End()

	if err := st.run(ctx, l); err != nil {
		s.spanFailure(span, err)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func requireCountry(_ context.Context, l *weatherLookup) *Error {
	if l.name == "" {
		return fail(ReasonMissingParameter, nil)
	}
	return nil
}

// resolveCountry takes the provider's first match; ties are not disambiguated.
func (s *Service) resolveCountry(ctx context.Context, l *weatherLookup) *Error {
	matches, err := s.countries.ByName(ctx, l.name)
	if err != nil {
		return upstreamFailure(ReasonCountryNotFound, err)
	}
	if len(matches) == 0 {
		return fail(ReasonNoCountryData, nil)
	}

	l.country = matches[0]
	return nil
}

func selectCapital(_ context.Context, l *weatherLookup) *Error {
	capital, ok := l.country.PrimaryCapital()
	if !ok {
		return fail(ReasonCapitalNotFound, nil)
	}

	l.capital = capital
	return nil
}

func locateCapital(_ context.Context, l *weatherLookup) *Error {
	coords, ok := l.country.CapitalCoordinates()
	if !ok {
		return fail(ReasonCapitalCoordinatesNotFound, nil)
	}

	l.coords = coords
	return nil
}

func (s *Service) fetchWeather(ctx context.Context, l *weatherLookup) *Error {
	report, err := s.weather.CurrentWeather(ctx, l.coords)
	if err != nil {
		return upstreamFailure(ReasonWeatherNotFound, err)
	}

	s.log.Debug().
		Str("country", l.name).
		Str("capital", l.capital).
		Float64("lat", l.coords.Latitude).
		Float64("lon", l.coords.Longitude).
		Msg("weather resolved")
	l.report = report
	return nil
}
