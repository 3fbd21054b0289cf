// Package metrics exposes Prometheus counters for the import pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RowsPreviewed counts rows normalized during preview.
	RowsPreviewed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistimport_rows_previewed_total",
		Help: "Rows normalized during import preview.",
	})

	// RowsSaved counts records durably persisted during confirm.
	RowsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistimport_rows_saved_total",
		Help: "Records persisted during import confirm.",
	})

	// RowsFailed counts per-record persistence failures during confirm.
	RowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistimport_rows_failed_total",
		Help: "Records that failed to persist during import confirm.",
	})

	// BatchesConfirmed counts completed confirm calls.
	BatchesConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistimport_batches_confirmed_total",
		Help: "Import batches confirmed.",
	})
)

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
