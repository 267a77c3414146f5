package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// totalRequests tracks the number of HTTP GET attempts dispatched.
	totalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knowmesh_fetch_requests_total",
		Help: "The total number of HTTP GET attempts sent.",
	})
	// totalRetries tracks attempts beyond the first for a single fetch.
	totalRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knowmesh_fetch_retries_total",
		Help: "The total number of retried HTTP GET attempts.",
	})
	// totalFailures tracks fetches that exhausted retries or failed hard.
	totalFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knowmesh_fetch_failures_total",
		Help: "The total number of fetches that returned an error.",
	})
	// totalRejected tracks pages rejected by content-type or size limits.
	totalRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knowmesh_fetch_rejected_total",
		Help: "The total number of responses rejected before use.",
	})
)
