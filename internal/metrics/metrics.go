// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FetchTotal counts page fetches by source and outcome
	// (hit, ok, network_error, timeout).
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coast",
		Name:      "fetch_total",
		Help:      "Page fetches by source and outcome",
	}, []string{"source", "outcome"})

	// ParseFailures counts detail pages that produced no usable event.
	ParseFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coast",
		Name:      "parse_failures_total",
		Help:      "Detail pages that produced no usable event",
	}, []string{"source"})

	// RequestDuration observes end-to-end aggregation latency.
	RequestDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "coast",
		Name:      "request_duration_seconds",
		Help:      "End-to-end aggregation latency",
	})

	// EventsReturned counts events emitted in responses.
	EventsReturned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coast",
		Name:      "events_returned_total",
		Help:      "Events emitted in responses",
	})
)

func init() {
	prometheus.MustRegister(FetchTotal, ParseFailures, RequestDuration, EventsReturned)
}

// ObserveRequest records one aggregation round-trip.
func ObserveRequest(start time.Time, returned int) {
	RequestDuration.Observe(time.Since(start).Seconds())
	EventsReturned.Add(float64(returned))
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
