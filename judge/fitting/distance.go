/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package fitting

import "fmt"

// Category labels how far the judge's rating sat from the human rating
// for one criterion.
type Category string

const (
	NoDifference              Category = "No Difference"
	MinorDifference           Category = "Minor Difference"
	ModerateDifference        Category = "Moderate Difference"
	MajorDifference           Category = "Major Difference"
	ErrorDetectionDiscrepancy Category = "Error Detection Discrepancy"
)

// Distance is the categorical and numeric gap between a model rating
// and a human rating on the shared 0-5 scale.
type Distance struct {
	Category Category `json:"category"`
	Detail   string   `json:"detail"`
	Delta    int      `json:"delta"`
}

// Categorize compares a model rating against a human rating. Detection
// disagreement outranks magnitude: when exactly one side rated 0, the
// two disagree about whether the error exists at all, and that is a
// detection discrepancy no matter how small the numeric gap.
func Categorize(model, human int) Distance {
	delta := model - human
	if delta < 0 {
		delta = -delta
	}

	switch {
	case model == 0 && human >= 1:
		return Distance{
			Category: ErrorDetectionDiscrepancy,
			Detail:   fmt.Sprintf("Metric: 0 vs. Human: %d (Human detects an error).", human),
			Delta:    delta,
		}
	case model >= 1 && human == 0:
		return Distance{
			Category: ErrorDetectionDiscrepancy,
			Detail:   fmt.Sprintf("Metric: %d vs. Human: 0 (Metric detects an error).", model),
			Delta:    delta,
		}
	case delta == 0:
		return Distance{
			Category: NoDifference,
			Detail:   fmt.Sprintf("Scores match exactly. (Human: %d; Metric: %d)", human, model),
			Delta:    delta,
		}
	case delta == 1:
		return Distance{
			Category: MinorDifference,
			Detail:   fmt.Sprintf("Scores differ by 1 point. (Human: %d; Metric: %d)", human, model),
			Delta:    delta,
		}
	case delta == 2:
		return Distance{
			Category: ModerateDifference,
			Detail:   fmt.Sprintf("Scores differ by 2 points. (Human: %d; Metric: %d)", human, model),
			Delta:    delta,
		}
	default:
		return Distance{
			Category: MajorDifference,
			Detail:   fmt.Sprintf("Scores differ by >= 3 points. (Human: %d; Metric: %d)", human, model),
			Delta:    delta,
		}
	}
}
