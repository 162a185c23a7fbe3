package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// benchmark service.
type Metrics struct {
	DatasetLoads      prometheus.Counter
	DatasetLoadErrors prometheus.Counter
	RowsParsed        *prometheus.CounterVec // labels: source={volumes,damages}
	RowsSkipped       *prometheus.CounterVec // labels: source={volumes,damages}

	MetricRows        prometheus.Gauge
	TransformDuration prometheus.Histogram
	RefresherReady    prometheus.Gauge
	SinkPublished     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "benchmark",
			Name:      "dataset_loads_total",
			Help:      "Total successful loads of the input dataset pair.",
		}),
		DatasetLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "benchmark",
			Name:      "dataset_load_errors_total",
			Help:      "Total failed attempts to load the input dataset pair.",
		}),
		RowsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "benchmark",
			Name:      "rows_parsed_total",
			Help:      "CSV data rows successfully parsed, by source file.",
		}, []string{"source"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "benchmark",
			Name:      "rows_skipped_total",
			Help:      "CSV data rows dropped for malformed field counts or values, by source file.",
		}, []string{"source"}),
		MetricRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "benchmark",
			Name:      "metric_rows",
			Help:      "Number of (state, year) rows in the current metric set.",
		}),
		TransformDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "benchmark",
			Name:      "transform_duration_seconds",
			Help:      "Duration of a complete load-and-transform cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		RefresherReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "benchmark",
			Name:      "refresher_ready",
			Help:      "1 once a metric set has been computed, 0 before.",
		}),
		SinkPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "benchmark",
			Name:      "sink_published_total",
			Help:      "Total metric rows published to the Kafka sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetLoadErrors,
		m.RowsParsed,
		m.RowsSkipped,
		m.MetricRows,
		m.TransformDuration,
		m.RefresherReady,
		m.SinkPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetLoads:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "benchmark", Name: "dataset_loads_total"}),
		DatasetLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "benchmark", Name: "dataset_load_errors_total"}),
		RowsParsed:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "benchmark", Name: "rows_parsed_total"}, []string{"source"}),
		RowsSkipped:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "benchmark", Name: "rows_skipped_total"}, []string{"source"}),
		MetricRows:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "benchmark", Name: "metric_rows"}),
		TransformDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "benchmark", Name: "transform_duration_seconds"}),
		RefresherReady:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "benchmark", Name: "refresher_ready"}),
		SinkPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "benchmark", Name: "sink_published_total"}),
	}
}
