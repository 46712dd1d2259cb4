/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"

	"chainguard.dev/summeval/dataset/criteria"
	"chainguard.dev/summeval/judge/metrics"
)

// ThreeStep judges each criterion through a collect / filter / rate
// sequence: first gather every span where the error could occur, then
// decide which candidates are real, then rate the summary in light of
// the survivors. Each step runs through the configured StepExecutor,
// so the same strategy serves single-model runs and panel runs.
type ThreeStep struct {
	exec StepExecutor
	set  *criteria.Set
	opts options
	run  *metrics.Run
}

// NewThreeStep builds the staged strategy over the given criteria.
func NewThreeStep(exec StepExecutor, set *criteria.Set, opts ...Option) (*ThreeStep, error) {
	if exec == nil {
		return nil, fmt.Errorf("step executor must not be nil")
	}
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("criteria set must not be empty")
	}
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &ThreeStep{
		exec: exec,
		set:  set,
		opts: o,
		run:  metrics.NewRun(ModeThreeStep.String()),
	}, nil
}

// Name implements Strategy.
func (t *ThreeStep) Name() string { return ModeThreeStep.String() }

// Run implements Strategy. Criteria are evaluated with up to the
// configured parallelism; the three steps within one criterion always
// run in order, each consuming the previous step's decoded output.
// After all criteria are judged, their ratings fold into the
// evaluation's aggregated quality score.
func (t *ThreeStep) Run(ctx context.Context, sample Sample) (*Evaluation, error) {
	crits := t.set.All()
	assessments := make([]Assessment, len(crits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.parallelism)
	for i, criterion := range crits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			assessments[i] = t.evaluate(gctx, sample, criterion)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rated := make([]RatedCriterion, 0, len(assessments))
	for _, assessment := range assessments {
		rated = append(rated, RatedCriterion{
			Criteria:  assessment.Criteria,
			Certainty: float64(assessment.Score.Confidence) / 10,
			Rating:    assessment.Score.Rating,
		})
	}
	quality := ComputeQuality(rated, t.opts.weights)

	t.run.Sample()
	t.run.Quality(quality)
	return &Evaluation{Assessments: assessments, Quality: &quality}, nil
}

// evaluate runs the three steps for one criterion. Step failures are
// absorbed: a failed collection or filter feeds an empty artifact into
// the next step, and a failed rating comes back zeroed. The protocol
// records whatever each step actually produced.
func (t *ThreeStep) evaluate(ctx context.Context, sample Sample, criterion criteria.Criterion) Assessment {
	log := clog.FromContext(ctx).With("strategy", t.Name(), "criterion", criterion.Name)

	collected := t.step(ctx, log, "collect", judgeSystemPrompt, func() (string, error) {
		return buildCollectUser(sample, criterion.Name, criterion.Definition)
	})

	filtered := t.step(ctx, log, "filter", judgeSystemPrompt, func() (string, error) {
		return buildFilterUser(criterion.Name, criterion.Definition, collected.Value)
	})

	rateSystem := judgeSystemPrompt
	if suggestion, ok := t.opts.suggestions[criterion.Name]; ok {
		suffix, err := buildSuggestionSuffix(suggestion)
		if err != nil {
			log.With("error", err).Warnf("binding calibration feedback; rating without it")
		} else {
			rateSystem += suffix
		}
	}
	rated := t.step(ctx, log, "rate", rateSystem, func() (string, error) {
		return buildRateUser(sample, criterion.Name, criterion.Definition, filtered.Value)
	})

	score, usable := scoreFromValue(rated.Value)
	if !usable {
		log.Warnf("rating step produced no usable score; substituting zeroes")
		t.run.Degraded(criterion.Name)
	}

	return Assessment{
		Criteria:  criterion.Name,
		Selection: collected.Value,
		Filter:    filtered.Value,
		Score:     score,
		Protocol: &Protocol{
			Instances: collected.protocolValue(),
			Filter:    filtered.protocolValue(),
			Final:     rated.protocolValue(),
		},
	}
}

// step binds and executes one step, absorbing its failures into an
// empty StepResult so the sequence always completes.
func (t *ThreeStep) step(ctx context.Context, log *clog.Logger, name, system string, build func() (string, error)) StepResult {
	user, err := build()
	if err != nil {
		log.With("step", name, "error", err).Warnf("binding step prompt; continuing with empty output")
		return StepResult{}
	}
	res, err := t.exec.ExecuteStep(ctx, system, user)
	if err != nil {
		log.With("step", name, "error", err).Warnf("step execution failed; continuing with empty output")
		return res
	}
	return res
}
