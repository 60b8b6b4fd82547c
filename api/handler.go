package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carlosfiori/country-weather-map/lookup"
	"github.com/carlosfiori/country-weather-map/metrics"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// LookupService is the behaviour the handlers need from lookup.Service.
type LookupService interface {
	Boundaries(ctx context.Context) (json.RawMessage, error)
	CountryNames(ctx context.Context) ([]string, error)
	SearchCountry(ctx context.Context, name string) (*lookup.SearchResult, error)
	Weather(ctx context.Context, country string) (json.RawMessage, error)
}

type Handler struct {
	Service LookupService
	Log     zerolog.Logger
	Metrics *metrics.Metrics
}

func NewHandler(service LookupService, log zerolog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		Service: service,
		Log:     log,
		Metrics: m,
	}
}

func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	body, err := h.Service.Boundaries(r.Context())
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	WriteRawJSON(w, body, http.StatusOK)
}

func (h *Handler) CountryNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.Service.CountryNames(r.Context())
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	WriteJSON(w, names, http.StatusOK)
}

func (h *Handler) SearchCountry(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")

	result, err := h.Service.SearchCountry(r.Context(), country)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	h.Log.Debug().Str("country", country).Str("remote", r.RemoteAddr).Msg("weather requested")

	report, err := h.Service.Weather(r.Context(), country)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	WriteRawJSON(w, report, http.StatusOK)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetReqID(r.Context())

	var lookupErr *lookup.Error
	if !errors.As(err, &lookupErr) {
		h.Log.Error().Err(err).Str("request_id", reqID).Str("path", r.URL.Path).Msg("lookup failed")
		WriteError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if errors.Is(lookupErr, lookup.ErrCanceled) {
		h.Log.Debug().Str("request_id", reqID).Str("path", r.URL.Path).Msg("client went away")
		WriteError(w, lookupErr.Message(), lookupErr.Status())
		return
	}

	h.Metrics.LookupFailures.WithLabelValues(string(lookupErr.Reason)).Inc()

	event := h.Log.Info()
	if lookupErr.Status() >= http.StatusInternalServerError {
		event = h.Log.Error()
	}
	event.Err(lookupErr.Err).
		Str("request_id", reqID).
		Str("path", r.URL.Path).
		Str("reason", string(lookupErr.Reason)).
		Int("status", lookupErr.Status()).
		Msg("lookup failed")

	WriteError(w, lookupErr.Message(), lookupErr.Status())
}
