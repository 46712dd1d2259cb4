/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/panel"
)

func TestThreeStep(t *testing.T) {
	t.Parallel()

	set := testSet(t, map[string]string{"hallucination": "Content not grounded in the transcript."})
	fake := &scriptedInvoker{model: "gpt-4o", responses: []string{
		`[{"instance": "the Q3 deadline", "reasoning": "not in transcript", "certainty": 80}]`,
		`[{"instance": "the Q3 deadline", "reasoning": "not in transcript", "certainty": 80, "error_exists": true}]`,
		`{"reasoning": "one fabricated deadline", "confidence": 8, "rating": 2}`,
	}}

	strategy, err := NewThreeStep(DirectExecutor{Invoker: fake}, set)
	if err != nil {
		t.Fatalf("NewThreeStep() = %v", err)
	}
	if got := strategy.Name(); got != "three_step" {
		t.Errorf("Name() = %q, want three_step", got)
	}

	eval, err := strategy.Run(context.Background(), Sample{Transcript: "the transcript", Summary: "the summary"})
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(eval.Assessments) != 1 {
		t.Fatalf("Assessments = %d entries, want 1", len(eval.Assessments))
	}
	assessment := eval.Assessments[0]

	wantScore := Score{Reasoning: "one fabricated deadline", Confidence: 8, Rating: 2}
	if diff := cmp.Diff(wantScore, assessment.Score); diff != "" {
		t.Errorf("Score mismatch (-want +got):\n%s", diff)
	}

	// The steps run in order, each feeding the next.
	if got := fake.callCount(); got != 3 {
		t.Fatalf("model calls = %d, want 3", got)
	}
	for i, marker := range []string{"Step 1", "Step 2", "Step 3"} {
		if !strings.Contains(fake.calls[i].User, marker) {
			t.Errorf("call %d missing %q:\n%s", i, marker, fake.calls[i].User)
		}
	}
	if !strings.Contains(fake.calls[1].User, "the Q3 deadline") {
		t.Errorf("filter step did not receive collected instances:\n%s", fake.calls[1].User)
	}
	if !strings.Contains(fake.calls[2].User, "error_exists") {
		t.Errorf("rating step did not receive filtered instances:\n%s", fake.calls[2].User)
	}

	// Intermediate artifacts survive on the assessment, decoded.
	selection, ok := assessment.Selection.([]any)
	if !ok || len(selection) != 1 {
		t.Errorf("Selection = %#v, want decoded one-element array", assessment.Selection)
	}
	filtered, ok := assessment.Filter.([]any)
	if !ok || len(filtered) != 1 {
		t.Errorf("Filter = %#v, want decoded one-element array", assessment.Filter)
	}
	if assessment.Protocol == nil {
		t.Fatal("Protocol = nil, want per-step record")
	}
	if diff := cmp.Diff(assessment.Selection, assessment.Protocol.Instances); diff != "" {
		t.Errorf("Protocol.Instances mismatch (-want +got):\n%s", diff)
	}

	// rating 2 at confidence 8: impact 2.0 maps to quality 6.4.
	if eval.Quality == nil {
		t.Fatal("Quality = nil, want aggregated score")
	}
	if math.Abs(*eval.Quality-6.4) > 1e-9 {
		t.Errorf("Quality = %v, want 6.4", *eval.Quality)
	}
}

func TestThreeStepRateFailure(t *testing.T) {
	t.Parallel()

	set := testSet(t, map[string]string{"omission": "Relevant transcript content is missing."})
	fake := &scriptedInvoker{model: "gpt-4o", responses: []string{
		`[]`,
		`[]`,
		`I cannot produce JSON today.`,
	}}

	strategy, err := NewThreeStep(DirectExecutor{Invoker: fake}, set)
	if err != nil {
		t.Fatalf("NewThreeStep() = %v", err)
	}
	eval, err := strategy.Run(context.Background(), Sample{Transcript: "t", Summary: "s"})
	if err != nil {
		t.Fatalf("Run() = %v, want degraded evaluation instead of failure", err)
	}

	assessment := eval.Assessments[0]
	if assessment.Score != (Score{}) {
		t.Errorf("Score = %+v, want zeroed", assessment.Score)
	}
	// The unusable reply is still preserved in the protocol.
	if got := assessment.Protocol.Final; got != "I cannot produce JSON today." {
		t.Errorf("Protocol.Final = %#v, want raw reply", got)
	}
	// Zero certainty leaves no usable signal; quality reports flawless.
	if eval.Quality == nil || *eval.Quality != 10 {
		t.Errorf("Quality = %v, want 10", eval.Quality)
	}
}

func TestThreeStepSuggestionOnRateOnly(t *testing.T) {
	t.Parallel()

	set := testSet(t, map[string]string{"omission": "Relevant transcript content is missing."})
	fake := &scriptedInvoker{model: "gpt-4o", responses: []string{
		`[]`,
		`[]`,
		`{"reasoning": "r", "confidence": 5, "rating": 1}`,
	}}

	strategy, err := NewThreeStep(DirectExecutor{Invoker: fake}, set,
		WithSuggestions(map[string]string{"omission": "count omitted decisions, not sentences"}))
	if err != nil {
		t.Fatalf("NewThreeStep() = %v", err)
	}
	if _, err := strategy.Run(context.Background(), Sample{Transcript: "t", Summary: "s"}); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	for i := range 2 {
		if fake.calls[i].System != judgeSystemPrompt {
			t.Errorf("call %d system prompt altered: %q", i, fake.calls[i].System)
		}
	}
	rateSystem := fake.calls[2].System
	if !strings.HasPrefix(rateSystem, judgeSystemPrompt) {
		t.Errorf("rating system prompt no longer starts with persona: %q", rateSystem)
	}
	if !strings.Contains(rateSystem, "count omitted decisions, not sentences") {
		t.Errorf("rating system prompt missing calibration feedback: %q", rateSystem)
	}
}

func TestThreeStepPanelProtocol(t *testing.T) {
	t.Parallel()

	set := testSet(t, map[string]string{"omission": "Relevant transcript content is missing."})
	fake := &scriptedInvoker{model: "gpt-4o", responses: []string{
		`{"reasoning": "panel agrees", "confidence": 6, "rating": 1}`,
	}}

	strategy, err := NewThreeStep(PanelExecutor{
		Roster:  []invoker.Interface{fake},
		Options: []panel.Option{panel.WithSize(2)},
	}, set)
	if err != nil {
		t.Fatalf("NewThreeStep() = %v", err)
	}
	eval, err := strategy.Run(context.Background(), Sample{Transcript: "t", Summary: "s"})
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}

	assessment := eval.Assessments[0]
	wantScore := Score{Reasoning: "panel agrees", Confidence: 6, Rating: 1}
	if diff := cmp.Diff(wantScore, assessment.Score); diff != "" {
		t.Errorf("Score mismatch (-want +got):\n%s", diff)
	}

	protocol, ok := assessment.Protocol.Final.([]panel.Entry)
	if !ok {
		t.Fatalf("Protocol.Final = %T, want deliberation entries", assessment.Protocol.Final)
	}
	// Draft, one critique round of two agents, consolidation.
	if len(protocol) != 4 {
		t.Fatalf("deliberation entries = %d, want 4", len(protocol))
	}
	if protocol[0].Stage != "Initial Draft" || protocol[len(protocol)-1].Stage != "Final Consolidation" {
		t.Errorf("deliberation stages = %v", protocol)
	}
}

func TestThreeStepParallel(t *testing.T) {
	t.Parallel()

	defs := map[string]string{
		"hallucination": "Content not grounded in the transcript.",
		"omission":      "Relevant transcript content is missing.",
		"repetition":    "The summary repeats itself.",
	}
	rate := map[string]string{}
	for name := range defs {
		rate[`name="`+name+`"`] = `{"reasoning": "` + name + `", "confidence": 10, "rating": 0}`
	}
	set := testSet(t, defs)
	fake := &stepRouterInvoker{rate: rate}

	strategy, err := NewThreeStep(DirectExecutor{Invoker: fake}, set, WithParallelism(3))
	if err != nil {
		t.Fatalf("NewThreeStep() = %v", err)
	}
	eval, err := strategy.Run(context.Background(), Sample{Transcript: "t", Summary: "s"})
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if diff := cmp.Diff(set.Names(), criterionNames(eval)); diff != "" {
		t.Errorf("criterion order mismatch (-want +got):\n%s", diff)
	}
	for _, assessment := range eval.Assessments {
		if assessment.Score.Reasoning != assessment.Criteria {
			t.Errorf("Score[%s].Reasoning = %q, responses crossed criteria", assessment.Criteria, assessment.Score.Reasoning)
		}
	}
	// Every rating carried zero severity at full confidence.
	if eval.Quality == nil || *eval.Quality != 10 {
		t.Errorf("Quality = %v, want 10", eval.Quality)
	}
}

// stepRouterInvoker answers collection and filter steps with empty
// arrays and routes rating calls by criterion marker.
type stepRouterInvoker struct {
	rate map[string]string
}

func (s *stepRouterInvoker) Invoke(_ context.Context, conv invoker.Conversation) (string, error) {
	switch {
	case strings.Contains(conv.User, "Step 1"):
		return `[]`, nil
	case strings.Contains(conv.User, "Step 2"):
		return `[]`, nil
	}
	for marker, response := range s.rate {
		if strings.Contains(conv.User, marker) {
			return response, nil
		}
	}
	return `{}`, nil
}

func (s *stepRouterInvoker) Model() string { return "gpt-4o" }
