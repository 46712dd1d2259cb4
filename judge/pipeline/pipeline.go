/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"fmt"

	"chainguard.dev/summeval/dataset/incontext"
	"chainguard.dev/summeval/judge/result"
)

// Sample is one summary under judgment and the transcript it claims to
// summarize.
type Sample struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
}

// Score is the judgment triple for one criterion. Rating runs 0 (error
// absent / no impact) to 5 (severe); Confidence runs 0 to 10.
type Score struct {
	Reasoning  string `json:"reasoning" jsonschema_description:"The reasoning behind the rating"`
	Confidence int    `json:"confidence" jsonschema:"minimum=0,maximum=10" jsonschema_description:"Confidence in the rating, 0-10"`
	Rating     int    `json:"rating" jsonschema:"minimum=0,maximum=5" jsonschema_description:"Error severity, 0 (none) to 5 (severe)"`
}

// Protocol preserves each stage's output of a three-step evaluation,
// including full deliberation logs when a panel executed the steps.
type Protocol struct {
	Instances any `json:"instances"`
	Filter    any `json:"filter"`
	Final     any `json:"final"`
}

// Assessment is the complete outcome of judging one sample against one
// criterion. Selection and Filter carry the three-step strategy's
// intermediate artifacts and are empty strings for single-call
// strategies; Protocol is set only by the three-step strategy.
type Assessment struct {
	Criteria  string    `json:"criteria"`
	Selection any       `json:"selection"`
	Filter    any       `json:"filter"`
	Score     Score     `json:"score"`
	Protocol  *Protocol `json:"protocol,omitempty"`
}

// Evaluation is a strategy's full output for one sample. Quality is
// set only by the three-step strategy.
type Evaluation struct {
	Assessments []Assessment `json:"assessments"`
	Quality     *float64     `json:"quality,omitempty"`
}

// Strategy evaluates one sample against every loaded criterion.
// Implementations guarantee criterion completeness: the returned
// assessments cover the full criterion set even when individual
// model calls fail, substituting zeroed scores for the casualties.
type Strategy interface {
	// Name identifies the strategy in metrics and artifacts.
	Name() string

	// Run evaluates one sample.
	Run(ctx context.Context, sample Sample) (*Evaluation, error)
}

// Mode is the external strategy selector carried by run configs.
// Configuration keeps the historical integer codes; they are mapped to
// a Strategy once at startup.
type Mode int

const (
	ModeAllAtOnce Mode = 0
	ModeOneByOne  Mode = 1
	ModeThreeStep Mode = 2
)

// ParseMode validates an integer mode code from configuration.
func ParseMode(code int) (Mode, error) {
	mode := Mode(code)
	switch mode {
	case ModeAllAtOnce, ModeOneByOne, ModeThreeStep:
		return mode, nil
	}
	return 0, fmt.Errorf("unknown pipeline mode %d", code)
}

func (m Mode) String() string {
	switch m {
	case ModeAllAtOnce:
		return "all_at_once"
	case ModeOneByOne:
		return "one_by_one"
	case ModeThreeStep:
		return "three_step"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Postfix returns the historical artifact-directory suffix for the mode.
func (m Mode) Postfix() string {
	switch m {
	case ModeAllAtOnce:
		return "_ALL_AT_ONCE"
	case ModeOneByOne:
		return "_ONE_BY_ONE"
	case ModeThreeStep:
		return "_THREE_STEP"
	}
	return ""
}

// options collects the cross-strategy tunables.
type options struct {
	examples    map[string]incontext.Example
	suggestions map[string]string
	weights     ImportanceWeights
	parallelism int
}

func defaultOptions() options {
	return options{parallelism: 1}
}

// Option configures a strategy.
type Option func(*options) error

// WithExamples provides prior judgments replayed as in-context
// examples, keyed by criterion. Used by the all-at-once and one-by-one
// strategies.
func WithExamples(examples map[string]incontext.Example) Option {
	return func(o *options) error {
		o.examples = examples
		return nil
	}
}

// WithSuggestions provides per-criterion calibration suggestions the
// three-step strategy appends to its rating-step system prompt.
func WithSuggestions(suggestions map[string]string) Option {
	return func(o *options) error {
		o.suggestions = suggestions
		return nil
	}
}

// WithWeights overrides the importance weights used for quality
// aggregation.
func WithWeights(weights ImportanceWeights) Option {
	return func(o *options) error {
		if len(weights) == 0 {
			return fmt.Errorf("weights must not be empty")
		}
		o.weights = weights
		return nil
	}
}

// WithParallelism lets a strategy evaluate up to n criteria
// concurrently. Steps within one criterion stay strictly ordered.
func WithParallelism(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("parallelism must be positive, got %d", n)
		}
		o.parallelism = n
		return nil
	}
}

// scoreFromValue converts a decoded model response into a Score,
// tolerating numbers that arrive as floats or digit strings. The
// second return reports whether the value was a usable object at all.
func scoreFromValue(v any) (Score, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Score{}, false
	}
	return Score{
		Reasoning:  result.String(m["reasoning"], ""),
		Confidence: clampInt(result.Int(m["confidence"], 0), 0, 10),
		Rating:     clampInt(result.Int(m["rating"], 0), 0, 5),
	}, true
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
