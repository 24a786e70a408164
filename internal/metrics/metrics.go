// Package metrics holds the Prometheus instruments of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "abbrhelper"

// Metrics holds all Prometheus instruments. A nil *Metrics is valid and
// records nothing, so one-shot CLI runs can skip registration.
type Metrics struct {
	ScansTotal       *prometheus.CounterVec
	ScanSeconds      *prometheus.HistogramVec
	TokensTotal      prometheus.Counter
	FindingsTotal    *prometheus.CounterVec
	ReportCacheTotal *prometheus.CounterVec
	ImportLinesTotal *prometheus.CounterVec
}

// New registers every instrument on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ScansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scans_total",
				Help:      "Documents scanned, by format and outcome",
			},
			[]string{"format", "status"},
		),
		ScanSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scan_duration_seconds",
				Help:      "Time spent extracting and classifying a document",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"format"},
		),
		TokensTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Words read from scanned documents",
			},
		),
		FindingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "findings_total",
				Help:      "Classification findings, by kind",
			},
			[]string{"kind"},
		),
		ReportCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_cache_total",
				Help:      "Report cache lookups, by result",
			},
			[]string{"result"},
		),
		ImportLinesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_entries_total",
				Help:      "Bulk import entries, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveScan records one finished scan.
func (m *Metrics) ObserveScan(format, status string, elapsed time.Duration, words int) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(format, status).Inc()
	m.ScanSeconds.WithLabelValues(format).Observe(elapsed.Seconds())
	m.TokensTotal.Add(float64(words))
}

// ObserveFindings records the size of each result section.
func (m *Metrics) ObserveFindings(known, unknown, exceptions int) {
	if m == nil {
		return
	}
	m.FindingsTotal.WithLabelValues("known").Add(float64(known))
	m.FindingsTotal.WithLabelValues("unknown").Add(float64(unknown))
	m.FindingsTotal.WithLabelValues("exception").Add(float64(exceptions))
}

// CacheResult records a report cache lookup: "hit", "miss" or "error".
func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.ReportCacheTotal.WithLabelValues(result).Inc()
}

// ObserveImport records the outcome counts of one bulk import.
func (m *Metrics) ObserveImport(created, duplicates, invalid int) {
	if m == nil {
		return
	}
	m.ImportLinesTotal.WithLabelValues("created").Add(float64(created))
	m.ImportLinesTotal.WithLabelValues("duplicate").Add(float64(duplicates))
	m.ImportLinesTotal.WithLabelValues("invalid").Add(float64(invalid))
}
