/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/metainvoker"
	"chainguard.dev/summeval/judge/pipeline"
)

type staticInvoker struct{}

func (staticInvoker) Invoke(context.Context, invoker.Conversation) (string, error) {
	return "", nil
}

func (staticInvoker) Model() string { return "static" }

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.name); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRetryOverride(t *testing.T) {
	t.Parallel()

	if got := retryOverride(config{}); got != nil {
		t.Errorf("expected nil override without tuning knobs, got %+v", got)
	}

	three := 3
	rc := retryOverride(config{MaxRetries: &three})
	if rc == nil {
		t.Fatal("expected an override when MAX_RETRIES is set")
	}
	if rc.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", rc.MaxRetries)
	}
	if rc.BaseBackoff != 2*time.Second {
		t.Errorf("BaseBackoff = %v, want the 2s default", rc.BaseBackoff)
	}

	rc = retryOverride(config{BaseDelay: 5 * time.Second})
	if rc == nil {
		t.Fatal("expected an override when BASE_DELAY is set")
	}
	if rc.BaseBackoff != 5*time.Second {
		t.Errorf("BaseBackoff = %v, want 5s", rc.BaseBackoff)
	}
	if rc.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want the default 5", rc.MaxRetries)
	}
}

func TestBuildStepExecutorSingleModel(t *testing.T) {
	t.Parallel()

	inv := staticInvoker{}
	exec, err := buildStepExecutor(context.Background(), config{SingleModel: true}, inv, metainvoker.Config{})
	if err != nil {
		t.Fatalf("buildStepExecutor() = %v", err)
	}
	direct, ok := exec.(pipeline.DirectExecutor)
	if !ok {
		t.Fatalf("expected a DirectExecutor, got %T", exec)
	}
	if direct.Invoker != invoker.Interface(inv) {
		t.Error("expected the primary invoker to execute steps")
	}
}

func TestBuildStepExecutorPanel(t *testing.T) {
	t.Parallel()

	cfg := config{
		ModelName:   "gpt-4o",
		PanelSize:   3,
		PanelRounds: 1,
	}
	exec, err := buildStepExecutor(context.Background(), cfg, staticInvoker{}, metainvoker.Config{})
	if err != nil {
		t.Fatalf("buildStepExecutor() = %v", err)
	}
	pe, ok := exec.(pipeline.PanelExecutor)
	if !ok {
		t.Fatalf("expected a PanelExecutor, got %T", exec)
	}
	if len(pe.Roster) != 1 {
		t.Errorf("expected a single-family roster of 1, got %d", len(pe.Roster))
	}

	// Multi-family panels seat agents across the configured models.
	cfg.MultiFamily = true
	cfg.PanelModels = []string{"gpt-4o", "gpt-4o-mini"}
	exec, err = buildStepExecutor(context.Background(), cfg, staticInvoker{}, metainvoker.Config{})
	if err != nil {
		t.Fatalf("buildStepExecutor() = %v", err)
	}
	pe, ok = exec.(pipeline.PanelExecutor)
	if !ok {
		t.Fatalf("expected a PanelExecutor, got %T", exec)
	}
	if len(pe.Roster) != 2 {
		t.Errorf("expected a multi-family roster of 2, got %d", len(pe.Roster))
	}
}
