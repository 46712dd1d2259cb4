/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/panel"
	"chainguard.dev/summeval/judge/result"
)

// StepResult is one evaluation step's outcome: the verbatim model
// text, its decoded value (raw text when decoding fails), and the
// deliberation protocol when a panel produced it.
type StepResult struct {
	Raw      string
	Value    any
	Protocol []panel.Entry
}

// protocolValue is what an Assessment's protocol records for a step: a
// panel's full deliberation where one ran, otherwise the step's value.
func (r StepResult) protocolValue() any {
	if r.Protocol != nil {
		return r.Protocol
	}
	return r.Value
}

// StepExecutor runs one step of a multi-step evaluation. The three-step
// strategy is handed one at construction, which is how a run chooses
// between single-model calls and panel deliberation without the
// strategy branching on it.
type StepExecutor interface {
	ExecuteStep(ctx context.Context, system, user string) (StepResult, error)
}

// DirectExecutor executes each step as a single model call.
type DirectExecutor struct {
	Invoker invoker.Interface
}

func (d DirectExecutor) ExecuteStep(ctx context.Context, system, user string) (StepResult, error) {
	raw, err := d.Invoker.Invoke(ctx, invoker.Conversation{System: system, User: user})
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Raw: raw, Value: result.Parse(raw)}, nil
}

// PanelExecutor delegates each step to a fresh brainstorming panel, so
// agent memory never leaks between steps.
type PanelExecutor struct {
	Roster  []invoker.Interface
	Options []panel.Option
}

func (p PanelExecutor) ExecuteStep(ctx context.Context, system, user string) (StepResult, error) {
	pan, err := panel.New(p.Roster, p.Options...)
	if err != nil {
		return StepResult{}, err
	}
	answer, protocol, err := pan.Ask(ctx, panel.TaskBrainstorming, system, user)
	if err != nil {
		return StepResult{Protocol: protocol}, err
	}
	return StepResult{Raw: answer.Raw, Value: answer.Value, Protocol: protocol}, nil
}
