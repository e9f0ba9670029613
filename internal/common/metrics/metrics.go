// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SheetFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_fetches_total",
			Help: "Total number of published CSV fetches",
		},
		[]string{"dataset", "result"},
	)

	SheetFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "sheet_fetch_duration_seconds",
			Help: "Duration of published CSV fetches in seconds",
		},
		[]string{"dataset"},
	)

	RowsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_rows_parsed_total",
			Help: "Total number of CSV rows turned into records",
		},
		[]string{"dataset", "tenant"},
	)

	SearchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_search_queries_total",
			Help: "Total number of WhatsApp keyword queries",
		},
		[]string{"tenant", "outcome"},
	)

	PaymentNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payfast_notifications_total",
			Help: "Total number of PayFast ITN webhook deliveries",
		},
		[]string{"status", "result"},
	)

	StaleRefreshesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_stale_refreshes_discarded_total",
			Help: "Refresh responses discarded for arriving after a newer one",
		},
		[]string{"tenant"},
	)
)
