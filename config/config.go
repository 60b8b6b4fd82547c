package config

import (
	"strconv"
	"time"

	"github.com/carlosfiori/country-weather-map/provider"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process-wide settings. It is read once at startup and
// passed explicitly to whatever needs it.
type Config struct {
	Env              string        // Env selects the log format: local, development, production.
	Port             string        // Port the HTTP server listens on.
	WeatherAPIKey    string        // WeatherAPIKey is the OpenWeatherMap appid.
	RestCountriesURL string        // RestCountriesURL is the REST Countries v3.1 base URL.
	OpenWeatherURL   string        // OpenWeatherURL is the OpenWeatherMap data/2.5 base URL.
	GeoJSONURL       string        // GeoJSONURL is the fixed country boundary file.
	UpstreamTimeout  time.Duration // UpstreamTimeout bounds each outbound call.
	OTLPEndpoint     string        // OTLPEndpoint is the collector gRPC address; empty disables export.
	ServiceName      string        // ServiceName is reported on every span.
}

// MustLoad reads .env (if present) and the environment. It panics on
// unparsable values or a missing weather API key.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("PORT", "8080")
	v.SetDefault("RESTCOUNTRIES_BASE_URL", provider.DefaultRestCountriesBaseURL)
	v.SetDefault("OPENWEATHERMAP_BASE_URL", provider.DefaultOpenWeatherBaseURL)
	v.SetDefault("GEOJSON_URL", provider.DefaultGeoJSONURL)
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("OTEL_SERVICE_NAME", "country-weather-map")

	port := v.GetString("PORT")
	if _, err := strconv.Atoi(port); err != nil {
		panic("failed to parse port from configuration")
	}

	timeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil || timeout <= 0 {
		panic("failed to parse upstream timeout from configuration")
	}

	apiKey := v.GetString("OPENWEATHERMAP_API_KEY")
	if apiKey == "" {
		panic("OPENWEATHERMAP_API_KEY environment variable not set")
	}

	return &Config{
		Env:              v.GetString("APP_ENV"),
		Port:             port,
		WeatherAPIKey:    apiKey,
		RestCountriesURL: v.GetString("RESTCOUNTRIES_BASE_URL"),
		OpenWeatherURL:   v.GetString("OPENWEATHERMAP_BASE_URL"),
		GeoJSONURL:       v.GetString("GEOJSON_URL"),
		UpstreamTimeout:  timeout,
		OTLPEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:      v.GetString("OTEL_SERVICE_NAME"),
	}
}
