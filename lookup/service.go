package lookup

import (
	"context"
	"encoding/json"

	"github.com/carlosfiori/country-weather-map/provider"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "country-weather-map/lookup"

// CountryProvider resolves country metadata.
type CountryProvider interface {
	ByName(ctx context.Context, name string) ([]provider.Country, error)
	All(ctx context.Context) ([]provider.Country, error)
}

// WeatherProvider returns current weather for a point as opaque JSON.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, coords provider.Coordinates) (json.RawMessage, error)
}

// BoundaryProvider returns the country boundary GeoJSON.
type BoundaryProvider interface {
	Boundaries(ctx context.Context) (json.RawMessage, error)
}

// SearchResult is what /search_country answers with. Absent fields encode as null.
type SearchResult struct {
	LatLng []float64 `json:"latlng"`
	Name   *string   `json:"name"`
}

// Service implements the lookups behind the HTTP endpoints. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	countries  CountryProvider
	weather    WeatherProvider
	boundaries BoundaryProvider
	log        zerolog.Logger
	tracer     trace.Tracer
}

func NewService(
	countries CountryProvider,
	weather WeatherProvider,
	boundaries BoundaryProvider,
	log zerolog.Logger,
) *Service {
	return &Service{
		countries:  countries,
		weather:    weather,
		boundaries: boundaries,
		log:        log,
		tracer:     otel.Tracer(tracerName),
	}
}

// Boundaries returns the GeoJSON FeatureCollection unmodified.
func (s *Service) Boundaries(ctx context.Context) (json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, "lookup: boundaries")
	defer span.End()

	body, err := s.boundaries.Boundaries(ctx)
	if err != nil {
		return nil, s.spanFailure(span, upstreamFailure(ReasonBoundariesNotFound, err))
	}

	span.SetStatus(codes.Ok, "")
	return body, nil
}

// CountryNames lists the common name of every country, in provider order.
func (s *Service) CountryNames(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "lookup: country-names")
	defer span.End()

	countries, err := s.countries.All(ctx)
	if err != nil {
		return nil, s.spanFailure(span, upstreamFailure(ReasonCountriesNotFound, err))
	}

	names := make([]string, len(countries))
	for i, country := range countries {
		names[i] = country.Name.Common
	}

	span.SetAttributes(attribute.Int("countries", len(names)))
	span.SetStatus(codes.Ok, "")
	return names, nil
}

// SearchCountry resolves name and reports the first match's latlng, as the
// provider returned it, and common name. An empty common name encodes as null.
func (s *Service) SearchCountry(ctx context.Context, name string) (*SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "lookup: search-country")
	defer span.End()
	span.SetAttributes(attribute.String("country", name))

	if name == "" {
		return nil, s.spanFailure(span, fail(ReasonMissingParameter, nil))
	}

	matches, err := s.countries.ByName(ctx, name)
	if err != nil {
		return nil, s.spanFailure(span, upstreamFailure(ReasonCountryNotFound, err))
	}
	if len(matches) == 0 {
		return nil, s.spanFailure(span, fail(ReasonCountryNotFound, nil))
	}

	country := matches[0]
	result := &SearchResult{LatLng: country.LatLng}
	if country.Name.Common != "" {
		common := country.Name.Common
		result.Name = &common
	}

	span.SetStatus(codes.Ok, "")
	return result, nil
}

func (s *Service) spanFailure(span trace.Span, err *Error) *Error {
	span.RecordError(err)
	span.SetAttributes(attribute.String("lookup.reason", string(err.Reason)))
	span.SetStatus(codes.Error, string(err.Reason))
	return err
}
