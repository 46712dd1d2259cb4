/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Global metrics with consistent dimensions
	samplesEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summeval_samples_evaluated_total",
			Help: "Total number of summaries evaluated",
		},
		[]string{"strategy"},
	)

	criterionDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summeval_criterion_degradations_total",
			Help: "Total number of per-criterion scores substituted with zeroes after model failures",
		},
		[]string{"strategy", "criterion"},
	)

	qualityGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "summeval_quality_score",
			Help: "Most recent aggregated summary quality (1.0-10.0)",
		},
		[]string{"strategy"},
	)
)

// Run exposes Prometheus metrics for one evaluation strategy.
// Pipelines create a Run at construction and report through it; the
// underlying collectors are process-global, so two pipelines with the
// same strategy label share series.
type Run struct {
	strategy string

	samples prometheus.Counter
	quality prometheus.Gauge
}

// NewRun creates the metrics handle for the named strategy.
func NewRun(strategy string) *Run {
	return &Run{
		strategy: strategy,
		samples:  samplesEvaluated.With(prometheus.Labels{"strategy": strategy}),
		quality:  qualityGauge.With(prometheus.Labels{"strategy": strategy}),
	}
}

// Sample records one fully evaluated summary.
func (r *Run) Sample() {
	r.samples.Inc()
}

// Degraded records a criterion whose score was zeroed because the model
// produced no usable output.
func (r *Run) Degraded(criterion string) {
	criterionDegradations.With(prometheus.Labels{
		"strategy":  r.strategy,
		"criterion": criterion,
	}).Inc()
}

// Quality records the aggregated quality score of the latest sample.
func (r *Run) Quality(q float64) {
	r.quality.Set(q)
}
