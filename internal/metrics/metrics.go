package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "custodia_pipeline_runs_total",
		Help: "Total number of analysis pipeline runs, labelled by outcome.",
	}, []string{"status"})

	RunsThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custodia_pipeline_runs_throttled_total",
		Help: "Total number of watch-triggered runs dropped by the rate limiter.",
	})

	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custodia_timeline_events_total",
		Help: "Total number of evidence records merged into timelines.",
	})

	AnomaliesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "custodia_anomalies_detected_total",
		Help: "Total number of anomalies detected, labelled by type.",
	}, []string{"type"})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "custodia_pipeline_duration_ms",
		Help:    "End-to-end pipeline run latency in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	WatchEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custodia_watch_fs_events_total",
		Help: "Total number of filesystem events observed in watch mode.",
	})
)
