/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"strings"
)

// ImportanceWeights scales each criterion's contribution to the
// aggregated quality score. Lookup is case-insensitive.
type ImportanceWeights map[string]float64

// DefaultWeights weight content-trust errors above style errors.
// Criteria not listed weigh 1.0.
func DefaultWeights() ImportanceWeights {
	return ImportanceWeights{
		"omission":      1.1,
		"hallucination": 1.1,
		"irrelevance":   1.1,
		"repetition":    0.9,
		"incoherence":   0.9,
		"language":      0.9,
	}
}

// RatedCriterion is one aggregation input: a criterion's severity
// rating and the certainty behind it on a [0,1] scale.
type RatedCriterion struct {
	Criteria  string
	Certainty float64
	Rating    int
}

// ComputeQuality folds per-criterion ratings into a single quality
// score on [1,10], 10 being a flawless summary.
//
// Each rating is weighted by its certainty times the criterion's
// importance; the weighted mean is the summary's impact on [0,5],
// which maps linearly onto the quality scale. A zero denominator
// (no certainty anywhere) yields zero impact, so an evaluation with
// nothing usable reports a 10 rather than dividing by zero. Inputs
// are clamped before use so no model output can push the result
// outside [1,10].
func ComputeQuality(entries []RatedCriterion, weights ImportanceWeights) float64 {
	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	normalized := make(map[string]float64, len(weights))
	for name, w := range weights {
		normalized[strings.ToLower(name)] = w
	}

	var numerator, denominator float64
	for _, entry := range entries {
		certainty := clampFloat(entry.Certainty, 0, 1)
		rating := float64(clampInt(entry.Rating, 0, 5))
		importance := 1.0
		if w, ok := normalized[strings.ToLower(entry.Criteria)]; ok {
			importance = w
		}
		numerator += rating * certainty * importance
		denominator += certainty * importance
	}

	impact := 0.0
	if denominator != 0 {
		impact = numerator / denominator
	}
	quality := 1 + ((5-impact)/5)*9
	return clampFloat(quality, 1, 10)
}

func clampFloat(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
