// Package metrics exposes Prometheus instrumentation for the client's
// traffic to the ledger service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts requests to the ledger service by operation and
	// outcome ("ok" or "error").
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splittab",
		Name:      "api_requests_total",
		Help:      "Requests issued to the ledger service.",
	}, []string{"operation", "outcome"})

	// APIDuration tracks request latency by operation.
	APIDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "splittab",
		Name:      "api_request_duration_seconds",
		Help:      "Latency of ledger service requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// GroupSyncs counts full group view re-fetches after mutations.
	GroupSyncs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "splittab",
		Name:      "group_syncs_total",
		Help:      "Full group view refetches triggered by mutations or view entry.",
	})
)
