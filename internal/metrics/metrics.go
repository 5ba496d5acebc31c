package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "repairshop"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	Checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "POS checkouts by result (committed, rejected, failed).",
	}, []string{"result"})

	Revenue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_revenue_total",
		Help:      "Sum of committed checkout totals.",
	})

	Backups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backups_total",
		Help:      "Store backups by target and result.",
	}, []string{"target", "result"})

	LowStockEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "low_stock_events_total",
		Help:      "Stock changes that left a product at or below its minimum.",
	})
)

// Checkout results.
const (
	ResultCommitted = "committed"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)
