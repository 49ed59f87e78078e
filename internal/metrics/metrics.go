// Package metrics exposes Prometheus collectors for the HTTP layer and the
// price-list ingestion.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)

	ingestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricelist_ingestions_total",
			Help: "Price list ingestions by result.",
		},
		[]string{"result"},
	)
	ingestedGoods = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricelist_ingested_goods_total",
			Help: "Product offers written by successful ingestions.",
		},
	)
	ingestionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricelist_ingestion_duration_seconds",
			Help:    "Duration of price list ingestions.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)

// Ingestion results.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultBusy     = "busy"
	ResultFailed   = "failed"
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		ingestionsTotal,
		ingestedGoods,
		ingestionDuration,
	)
}

// RecordRequest records one HTTP request.
func RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordIngestion records the outcome of one price list ingestion.
func RecordIngestion(result string, goods int, duration time.Duration) {
	ingestionsTotal.WithLabelValues(result).Inc()
	ingestionDuration.Observe(duration.Seconds())
	if result == ResultSuccess {
		ingestedGoods.Add(float64(goods))
	}
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
