package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tagblog",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tagblog",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Searches counts search requests by outcome: ok, empty, missing, too_many_terms, error.
	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tagblog",
		Name:      "searches_total",
		Help:      "Search requests by outcome.",
	}, []string{"outcome"})

	// Logins counts login attempts by outcome: ok, invalid, error.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tagblog",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// TagWrites counts tag rows written by reconciliation, by kind: insert, update, delete.
	TagWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tagblog",
		Name:      "tag_writes_total",
		Help:      "Tag rows written by reconciliation.",
	}, []string{"kind"})
)
