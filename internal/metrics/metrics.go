// Package metrics exposes the harvester's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal counts harvest cycles by terminal status.
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_cycles_total",
		Help: "Harvest cycles run, labeled by terminal status.",
	}, []string{"status"})

	// CycleDuration observes end-to-end cycle wall time.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "harvester_cycle_duration_seconds",
		Help:    "End-to-end duration of one harvest cycle.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	// RowsRotated counts snapshot rows archived into history.
	RowsRotated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_rows_rotated_total",
		Help: "Snapshot rows archived into history, labeled by entity.",
	}, []string{"entity"})

	// RowsIngested counts rows written into the live snapshot.
	RowsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_rows_ingested_total",
		Help: "Rows written into the live snapshot, labeled by entity.",
	}, []string{"entity"})

	// RecordsDropped counts harvested records discarded before storage.
	RecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_records_dropped_total",
		Help: "Harvested records dropped as duplicates or invalid, labeled by entity.",
	}, []string{"entity"})

	// ChartFetchFailures counts per-chart upstream failures.
	ChartFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_chart_fetch_failures_total",
		Help: "Trending chart fetches that yielded no records, labeled by chart.",
	}, []string{"chart"})
)
