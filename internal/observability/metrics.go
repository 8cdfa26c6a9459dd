// Package observability holds the Prometheus metrics for the catalog tool.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and histograms shared by the harvester and the
// query API. A nil *Metrics is valid and records nothing, so library code can
// take metrics optionally.
type Metrics struct {
	LookupRequests *prometheus.CounterVec // labels: outcome={success,error}
	HarvestRuns    *prometheus.CounterVec // labels: outcome={complete,failed}
	HarvestRecords *prometheus.CounterVec // labels: kind={raw,validated,dropped}
	HarvestSeconds prometheus.Histogram

	QueryRequests *prometheus.CounterVec // labels: outcome={ok,invalid_input}
	CatalogSpots  prometheus.Gauge
}

// NewMetrics creates the metric set and registers it with the given registry.
// Pass prometheus.DefaultRegisterer for normal use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spot_cli",
			Name:      "lookup_requests_total",
			Help:      "Detail-endpoint lookups by outcome.",
		}, []string{"outcome"}),
		HarvestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spot_cli",
			Name:      "harvest_runs_total",
			Help:      "Completed and failed harvest runs.",
		}, []string{"outcome"}),
		HarvestRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spot_cli",
			Name:      "harvest_records_total",
			Help:      "Raw, validated, and dropped records per harvest.",
		}, []string{"kind"}),
		HarvestSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spot_cli",
			Name:      "harvest_duration_seconds",
			Help:      "Duration of a full harvest pass.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		QueryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spot_cli",
			Name:      "query_requests_total",
			Help:      "Catalog queries by outcome.",
		}, []string{"outcome"}),
		CatalogSpots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spot_cli",
			Name:      "catalog_spots",
			Help:      "Validated spots in the loaded catalog.",
		}),
	}

	reg.MustRegister(
		m.LookupRequests,
		m.HarvestRuns,
		m.HarvestRecords,
		m.HarvestSeconds,
		m.QueryRequests,
		m.CatalogSpots,
	)
	return m
}

// ObserveLookup records one lookup outcome.
func (m *Metrics) ObserveLookup(success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.LookupRequests.WithLabelValues(outcome).Inc()
}

// ObserveHarvest records a finished harvest run.
func (m *Metrics) ObserveHarvest(failed bool, raw, validated int, seconds float64) {
	if m == nil {
		return
	}
	outcome := "complete"
	if failed {
		outcome = "failed"
	}
	m.HarvestRuns.WithLabelValues(outcome).Inc()
	m.HarvestRecords.WithLabelValues("raw").Add(float64(raw))
	m.HarvestRecords.WithLabelValues("validated").Add(float64(validated))
	m.HarvestRecords.WithLabelValues("dropped").Add(float64(raw - validated))
	m.HarvestSeconds.Observe(seconds)
}

// ObserveQuery records one API query outcome.
func (m *Metrics) ObserveQuery(invalidInput bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if invalidInput {
		outcome = "invalid_input"
	}
	m.QueryRequests.WithLabelValues(outcome).Inc()
}

// SetCatalogSize publishes the current catalog size.
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.CatalogSpots.Set(float64(n))
}
