package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ImportRowsTotal counts workbook rows by how the importer classified them.
	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_import_rows_total",
			Help: "Workbook rows processed by the inventory importer",
		},
		[]string{"kind"},
	)

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders submitted",
	})

	OrdersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_sent_total",
		Help: "Orders verified and emailed to the supplier",
	})

	OrderEmailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_email_failures_total",
		Help: "Order emails that failed to send",
	})

	QuantityResetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantity_resets_total",
			Help: "Item quantities reset to zero",
		},
		[]string{"reason"},
	)
)
