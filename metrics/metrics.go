// Package metrics exposes Prometheus instrumentation for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequirementsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcgen_requirements_processed_total",
			Help: "Total number of normalized requirements processed",
		},
	)

	TestCasesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcgen_test_cases_generated_total",
			Help: "Total number of test cases generated",
		},
		[]string{"test_type"},
	)

	AmbiguousRequirements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcgen_ambiguous_requirements_total",
			Help: "Total number of requirements flagged as ambiguous",
		},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcgen_pipeline_duration_seconds",
			Help:    "Time taken to run the full generation pipeline",
			Buckets: prometheus.DefBuckets,
		},
	)
)
