/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chainguard.dev/summeval/dataset/criteria"
	"chainguard.dev/summeval/judge/invoker"
)

// testSet loads a criteria set from definitions written to a temp dir,
// so strategy tests exercise the same loader production runs use.
func testSet(t *testing.T, defs map[string]string) *criteria.Set {
	t.Helper()
	dir := t.TempDir()
	for name, definition := range defs {
		doc, err := json.Marshal(map[string]string{"definition": definition})
		if err != nil {
			t.Fatalf("marshaling %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name+".json"), doc, 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	set, err := criteria.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("criteria.Load() = %v", err)
	}
	return set
}

// scriptedInvoker replays canned responses in call order and records
// every conversation it receives. The last response repeats once the
// script runs out.
type scriptedInvoker struct {
	model     string
	responses []string
	err       error

	mu    sync.Mutex
	calls []invoker.Conversation
}

func (s *scriptedInvoker) Invoke(_ context.Context, conv invoker.Conversation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, conv)
	if s.err != nil {
		return "", s.err
	}
	idx := len(s.calls) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func (s *scriptedInvoker) Model() string { return s.model }

func (s *scriptedInvoker) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// keyedInvoker answers by matching a marker substring in the user
// prompt, so responses stay attached to their criterion under any
// execution order.
type keyedInvoker struct {
	model     string
	responses map[string]string
	errs      map[string]error

	mu    sync.Mutex
	calls []invoker.Conversation
}

func (k *keyedInvoker) Invoke(_ context.Context, conv invoker.Conversation) (string, error) {
	k.mu.Lock()
	k.calls = append(k.calls, conv)
	k.mu.Unlock()
	for marker, err := range k.errs {
		if strings.Contains(conv.User, marker) {
			return "", err
		}
	}
	for marker, response := range k.responses {
		if strings.Contains(conv.User, marker) {
			return response, nil
		}
	}
	return "", fmt.Errorf("no scripted response matches prompt %q", conv.User)
}

func (k *keyedInvoker) Model() string { return k.model }

func criterionNames(eval *Evaluation) []string {
	out := make([]string, 0, len(eval.Assessments))
	for _, assessment := range eval.Assessments {
		out = append(out, assessment.Criteria)
	}
	return out
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for code, want := range map[int]Mode{
		0: ModeAllAtOnce,
		1: ModeOneByOne,
		2: ModeThreeStep,
	} {
		got, err := ParseMode(code)
		if err != nil {
			t.Errorf("ParseMode(%d) = %v", code, err)
		}
		if got != want {
			t.Errorf("ParseMode(%d) = %v, want %v", code, got, want)
		}
	}

	for _, code := range []int{-1, 3, 42} {
		if _, err := ParseMode(code); err == nil {
			t.Errorf("ParseMode(%d) = nil error, want failure", code)
		}
	}
}

func TestModeNaming(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mode    Mode
		name    string
		postfix string
	}{
		{ModeAllAtOnce, "all_at_once", "_ALL_AT_ONCE"},
		{ModeOneByOne, "one_by_one", "_ONE_BY_ONE"},
		{ModeThreeStep, "three_step", "_THREE_STEP"},
	}
	for _, tc := range cases {
		if got := tc.mode.String(); got != tc.name {
			t.Errorf("%v.String() = %q, want %q", int(tc.mode), got, tc.name)
		}
		if got := tc.mode.Postfix(); got != tc.postfix {
			t.Errorf("%v.Postfix() = %q, want %q", int(tc.mode), got, tc.postfix)
		}
	}
}

func TestScoreFromValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  Score
		ok    bool
	}{
		{
			name:  "plain object",
			value: map[string]any{"reasoning": "missing budget line", "confidence": float64(8), "rating": float64(4)},
			want:  Score{Reasoning: "missing budget line", Confidence: 8, Rating: 4},
			ok:    true,
		},
		{
			name:  "quoted numbers",
			value: map[string]any{"reasoning": "ok", "confidence": "7", "rating": "2"},
			want:  Score{Reasoning: "ok", Confidence: 7, Rating: 2},
			ok:    true,
		},
		{
			name:  "out of range clamps",
			value: map[string]any{"confidence": float64(99), "rating": float64(-3)},
			want:  Score{Confidence: 10, Rating: 0},
			ok:    true,
		},
		{
			name:  "missing fields zero",
			value: map[string]any{},
			want:  Score{},
			ok:    true,
		},
		{
			name:  "not an object",
			value: "I cannot rate this summary",
			ok:    false,
		},
		{
			name: "nil",
			ok:   false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := scoreFromValue(tc.value)
			if ok != tc.ok {
				t.Fatalf("scoreFromValue() ok = %v, want %v", ok, tc.ok)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("scoreFromValue() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithParallelismValidation(t *testing.T) {
	t.Parallel()

	o := defaultOptions()
	if err := WithParallelism(0)(&o); err == nil {
		t.Error("WithParallelism(0) = nil error, want failure")
	}
	if err := WithParallelism(4)(&o); err != nil {
		t.Errorf("WithParallelism(4) = %v", err)
	}
	if o.parallelism != 4 {
		t.Errorf("parallelism = %d, want 4", o.parallelism)
	}
}
