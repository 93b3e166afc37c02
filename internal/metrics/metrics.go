// Package metrics registers Prometheus instrumentation for the pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_refreshes_total", Help: "Reconciliation refresh attempts"},
		[]string{"trigger", "result"},
	)
	ParseFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "signal_parse_failures_total", Help: "Raw messages dropped by the parser"},
	)
	PushEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "signal_push_events_total", Help: "Incremental push events received"},
	)
	LedgerMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ledger_mutations_total", Help: "Trade ledger add/remove operations"},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(RefreshesTotal, ParseFailuresTotal, PushEventsTotal, LedgerMutationsTotal)
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
