package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOk       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Registry holds the prometheus collectors exposed on /metrics. A nil *Registry
// is valid and records nothing.
type Registry struct {
	reg             *prometheus.Registry
	FetchTotal      *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	FetchRows       *prometheus.CounterVec
	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	fetchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cmreports_fetch_total",
		Help: "Report fetches by source and outcome.",
	}, []string{"source", "outcome"})
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cmreports_fetch_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	fetchRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cmreports_fetch_rows_total",
		Help: "Records mapped from scraped tables.",
	}, []string{"source"})
	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cmreports_http_requests_total",
	}, []string{"route", "status"})
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cmreports_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	r.MustRegister(fetchTotal, fetchDuration, fetchRows, requestTotal, requestDuration)
	return &Registry{
		reg:             r,
		FetchTotal:      fetchTotal,
		FetchDuration:   fetchDuration,
		FetchRows:       fetchRows,
		RequestTotal:    requestTotal,
		RequestDuration: requestDuration,
	}
}

func (r *Registry) ObserveFetch(source, outcome string, rows int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.FetchTotal.WithLabelValues(source, outcome).Inc()
	r.FetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	r.FetchRows.WithLabelValues(source).Add(float64(rows))
}

func (r *Registry) ObserveRequest(route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.RequestTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
