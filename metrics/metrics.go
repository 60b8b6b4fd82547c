package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	UpstreamSeconds *prometheus.HistogramVec
	LookupFailures  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests served, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		UpstreamSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of requests to upstream providers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"upstream", "code", "method"}),
		LookupFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_failures_total",
			Help: "Total number of lookups that ended in an error, by reason.",
		}, []string{"reason"}),
	}
}

// InstrumentTransport records the duration of every round trip through next
// under the given upstream label.
func (m *Metrics) InstrumentTransport(upstream string, next http.RoundTripper) http.RoundTripper {
	observer := m.UpstreamSeconds.MustCurryWith(prometheus.Labels{"upstream": upstream})
	return promhttp.InstrumentRoundTripperDuration(observer, next)
}
