package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlosfiori/country-weather-map/api"
	"github.com/carlosfiori/country-weather-map/config"
	"github.com/carlosfiori/country-weather-map/lookup"
	"github.com/carlosfiori/country-weather-map/metrics"
	"github.com/carlosfiori/country-weather-map/provider"
	"github.com/carlosfiori/country-weather-map/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	shutdownTimeout    = 10 * time.Second
	serverReadTimeout  = 10 * time.Second
	serverWriteTimeout = 35 * time.Second
	serverIdleTimeout  = 60 * time.Second
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

func main() {
	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)
	log.Logger = logger

	shutdownTracer, err := utils.InitTracerProvider(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error initializing tracer provider")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	upstreamClient := func(name string) *http.Client {
		return &http.Client{
			Timeout:   cfg.UpstreamTimeout,
			Transport: appMetrics.InstrumentTransport(name, otelhttp.NewTransport(http.DefaultTransport)),
		}
	}

	service := lookup.NewService(
		provider.NewRestCountries(upstreamClient("restcountries"), cfg.RestCountriesURL),
		provider.NewOpenWeather(upstreamClient("openweathermap"), cfg.OpenWeatherURL, cfg.WeatherAPIKey),
		provider.NewGeoJSON(upstreamClient("geojson"), cfg.GeoJSONURL),
		logger,
	)
	handler := api.NewHandler(service, logger, appMetrics)
	router := api.SetupRouter(handler, reg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Country weather map starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal().Err(err).Msg("Error starting server")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Error during shutdown")
			server.Close()
		}
		if err := shutdownTracer(ctx); err != nil {
			logger.Error().Err(err).Msg("Error shutting down tracer provider")
		}

		logger.Info().Msg("Country weather map stopped")
	}
}

// setupLogger picks the log format and level for the environment.
func setupLogger(env string) zerolog.Logger {
	switch env {
	case envLocal:
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Caller().Logger()
	case envDev:
		return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	case envProd:
		return zerolog.New(os.Stdout).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	default:
		logger := zerolog.New(os.Stdout).Level(zerolog.ErrorLevel).With().Timestamp().Logger()
		logger.Error().
			Str("available_envs", "local, development, production").
			Msg("The env parameter was not specified or was invalid. Logging will be minimal, by default.")
		return logger
	}
}
