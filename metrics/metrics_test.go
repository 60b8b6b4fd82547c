package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carlosfiori/country-weather-map/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.Requests.WithLabelValues("/weather", "200").Inc()
	m.LookupFailures.WithLabelValues("capital_not_found").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("/weather", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupFailures.WithLabelValues("capital_not_found")), 0)
	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "second registration must collide")
}

func TestInstrumentTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	client := &http.Client{Transport: m.InstrumentTransport("restcountries", http.DefaultTransport)}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamSeconds, "upstream_request_duration_seconds"))
}
