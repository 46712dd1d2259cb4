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
	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/metrics"
	"chainguard.dev/summeval/judge/result"
)

// OneByOne judges each criterion with its own model call. Failures stay
// contained to the criterion whose call failed, which makes it the
// baseline of choice when criterion completeness matters more than
// token cost.
type OneByOne struct {
	invoker invoker.Interface
	set     *criteria.Set
	opts    options
	run     *metrics.Run
}

// NewOneByOne builds the per-criterion strategy over the given criteria.
func NewOneByOne(inv invoker.Interface, set *criteria.Set, opts ...Option) (*OneByOne, error) {
	if inv == nil {
		return nil, fmt.Errorf("invoker must not be nil")
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
	return &OneByOne{
		invoker: inv,
		set:     set,
		opts:    o,
		run:     metrics.NewRun(ModeOneByOne.String()),
	}, nil
}

// Name implements Strategy.
func (o *OneByOne) Name() string { return ModeOneByOne.String() }

// Run implements Strategy. Criteria are evaluated with up to the
// configured parallelism, and the returned assessments keep the set's
// name order regardless of completion order.
func (o *OneByOne) Run(ctx context.Context, sample Sample) (*Evaluation, error) {
	crits := o.set.All()
	assessments := make([]Assessment, len(crits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.parallelism)
	for i, criterion := range crits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			assessments[i] = o.evaluate(gctx, sample, criterion)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.run.Sample()
	return &Evaluation{Assessments: assessments}, nil
}

// evaluate judges one criterion. It never fails: model and decoding
// casualties come back as a zeroed score.
func (o *OneByOne) evaluate(ctx context.Context, sample Sample, criterion criteria.Criterion) Assessment {
	log := clog.FromContext(ctx).With("strategy", o.Name(), "criterion", criterion.Name)
	assessment := Assessment{Criteria: criterion.Name, Selection: "", Filter: ""}

	system := oneByOneSystemPrompt
	if example, ok := o.opts.examples[criterion.Name]; ok {
		suffix, err := buildExampleSuffix(example)
		if err != nil {
			log.With("error", err).Warnf("binding in-context example; judging without it")
		} else {
			system += suffix
		}
	}
	user, err := buildOneByOneUser(sample, criterion.Name, criterion.Definition)
	if err != nil {
		log.With("error", err).Warnf("binding judgment prompt; substituting zeroes")
		o.run.Degraded(criterion.Name)
		return assessment
	}

	raw, err := o.invoker.Invoke(ctx, invoker.Conversation{System: system, User: user})
	if err != nil {
		log.With("error", err).Warnf("judgment call failed; substituting zeroes")
		o.run.Degraded(criterion.Name)
		return assessment
	}
	score, usable := scoreFromValue(result.Parse(raw))
	if !usable {
		log.Warnf("judgment did not decode to a score object; substituting zeroes")
		o.run.Degraded(criterion.Name)
		return assessment
	}

	assessment.Score = score
	return assessment
}
