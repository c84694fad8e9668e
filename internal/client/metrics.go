package client

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values. Every failure outcome is its ErrorCode in lower case.
const (
	OutcomeSuccess = "success"
)

// Metrics holds the Prometheus collectors for query submission.
type Metrics struct {
	Queries  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cathbad_queries_total",
		Help: "Native queries submitted, by query type and outcome",
	}, []string{"query_type", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cathbad_query_duration_seconds",
		Help:    "Round trip time of queries that reached the transport",
		Buckets: prometheus.DefBuckets,
	}, []string{"query_type"})

	reg.MustRegister(queries, duration)

	return &Metrics{
		Queries:  queries,
		Duration: duration,
	}
}
