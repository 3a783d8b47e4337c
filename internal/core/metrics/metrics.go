package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "order_forwarder"

// Forwarding outcomes used as the "outcome" label of OrdersForwarded.
const (
	OutcomeOK              = "ok"
	OutcomeClientFailed    = "client_failed"
	OutcomeInvoiceFailed   = "invoice_failed"
	OutcomeRejectedPayload = "rejected_payload"
	OutcomeRateLimited     = "rate_limited"
)

var (
	// OrdersForwarded counts webhook deliveries by outcome.
	OrdersForwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "webhook",
		Name:      "orders_total",
		Help:      "Total number of order webhooks handled, by outcome.",
	}, []string{"outcome"})

	// ForwardDuration observes the time spent forwarding one order upstream.
	ForwardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "webhook",
		Name:      "forward_duration_seconds",
		Help:      "Time spent creating the client and invoice for one order.",
		Buckets:   prometheus.DefBuckets,
	})

	// UpstreamRequests counts outbound HTTP calls by host, method and status.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total number of outbound HTTP requests.",
	}, []string{"host", "method", "status"})

	// UpstreamDuration observes outbound HTTP latencies.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Outbound HTTP request latencies in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"host", "method"})
)
