package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dataset metrics.
var (
	DatasetRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the published dataset snapshot, by table",
		},
		[]string{"table"},
	)

	DatasetLoadDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of the last successful dataset load",
		},
	)

	DatasetLoadedTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_loaded_timestamp_seconds",
			Help:      "Unix time the current dataset snapshot was published",
		},
	)

	DatasetReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_reloads_total",
			Help:      "Dataset load attempts",
		},
		[]string{"status"}, // "ok" / "error"
	)
)
