// Package metrics registers and exposes the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RPCCallsTotal counts chain RPC calls by method and outcome.
	RPCCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_reader_rpc_calls_total",
			Help: "Number of chain RPC calls, labeled by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	// RPCCallDuration observes chain RPC call latency by method.
	RPCCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "token_reader_rpc_call_duration_seconds",
			Help:    "Latency of chain RPC calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// PriceFeedRequestsTotal counts price feed lookups by outcome
	// (ok, miss, error).
	PriceFeedRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_reader_price_feed_requests_total",
			Help: "Number of price feed lookups, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	// TransfersSubmittedTotal counts submitted transfers by kind
	// (native, token) and outcome.
	TransfersSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_reader_transfers_submitted_total",
			Help: "Number of transfer submissions, labeled by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// It panics on duplicate registration, so call it once from main.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		RPCCallsTotal,
		RPCCallDuration,
		PriceFeedRequestsTotal,
		TransfersSubmittedTotal,
	)
}

// ObserveRPCCall records one chain RPC call.
func ObserveRPCCall(method string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RPCCallsTotal.WithLabelValues(method, outcome).Inc()
	RPCCallDuration.WithLabelValues(method).Observe(seconds)
}
