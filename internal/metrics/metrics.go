package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BillsCreatedTotal counts receipts written to the ledger.
	BillsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bills_created_total",
			Help: "Total number of bills created",
		},
	)

	// SettlementsAppliedTotal counts pending bills cleared through
	// cross-bill settlement.
	SettlementsAppliedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "settlements_applied_total",
			Help: "Total number of old pending bills cleared by settlements",
		},
	)
)
