/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/summeval/dataset/criteria"
	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/metrics"
	"chainguard.dev/summeval/judge/result"
)

// AllAtOnce judges every criterion in a single model call. It is the
// cheapest strategy and the least reliable one: the model must return
// one JSON object keyed by criterion name, and any criterion it skips
// or garbles is zeroed.
type AllAtOnce struct {
	invoker invoker.Interface
	set     *criteria.Set
	opts    options
	run     *metrics.Run
}

// NewAllAtOnce builds the single-call strategy over the given criteria.
func NewAllAtOnce(inv invoker.Interface, set *criteria.Set, opts ...Option) (*AllAtOnce, error) {
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
	return &AllAtOnce{
		invoker: inv,
		set:     set,
		opts:    o,
		run:     metrics.NewRun(ModeAllAtOnce.String()),
	}, nil
}

// Name implements Strategy.
func (a *AllAtOnce) Name() string { return ModeAllAtOnce.String() }

// Run implements Strategy. The returned evaluation always covers every
// criterion in the set, in name order; criteria the model failed to
// score carry a zeroed Score.
func (a *AllAtOnce) Run(ctx context.Context, sample Sample) (*Evaluation, error) {
	log := clog.FromContext(ctx).With("strategy", a.Name())

	system := allAtOnceSystemPrompt
	if len(a.opts.examples) > 0 {
		suffix, err := buildExamplesSuffix(a.opts.examples)
		if err != nil {
			return nil, err
		}
		system += suffix
	}
	user, err := buildAllAtOnceUser(sample, a.set)
	if err != nil {
		return nil, err
	}

	var value any
	raw, err := a.invoker.Invoke(ctx, invoker.Conversation{System: system, User: user})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.With("error", err).Warnf("combined judgment call failed; zeroing all criteria")
	} else {
		value = result.Parse(raw)
	}

	crits := a.set.All()
	assessments := make([]Assessment, 0, len(crits))
	for _, criterion := range crits {
		score := Score{}
		entry, found := criterionField(value, criterion.Name)
		if found {
			var usable bool
			if score, usable = scoreFromValue(entry); !usable {
				score = Score{}
				found = false
			}
		}
		if !found {
			log.With("criterion", criterion.Name).Warnf("no usable score in combined judgment; substituting zeroes")
			a.run.Degraded(criterion.Name)
		}
		assessments = append(assessments, Assessment{
			Criteria:  criterion.Name,
			Selection: "",
			Filter:    "",
			Score:     score,
		})
	}

	a.run.Sample()
	return &Evaluation{Assessments: assessments}, nil
}

// criterionField looks a criterion's entry up in the decoded combined
// judgment, falling back to a case-insensitive scan because models do
// not reliably echo criterion names with their original casing.
func criterionField(value any, name string) (any, bool) {
	if entry, ok := result.Field(value, name); ok {
		return entry, true
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	for key, entry := range obj {
		if strings.EqualFold(key, name) {
			return entry, true
		}
	}
	return nil, false
}
