/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metainvoker

import (
	"context"
	"strings"
	"testing"
)

func TestNewModelSelection(t *testing.T) {
	ctx := context.Background()
	cfg := Config{APIKey: "test-key"}

	tests := []struct {
		name      string
		model     string
		wantModel string
		wantErr   string
	}{{
		name:      "openai model",
		model:     "gpt-4o",
		wantModel: "gpt-4o",
	}, {
		name:      "azure deployment name routes to openai",
		model:     "summary-judge-eastus",
		wantModel: "summary-judge-eastus",
	}, {
		name:      "claude model",
		model:     "claude-sonnet-4-20250514",
		wantModel: "claude-sonnet-4-20250514",
	}, {
		name:      "gemini model",
		model:     "gemini-2.5-flash",
		wantModel: "gemini-2.5-flash",
	}, {
		name:    "empty model",
		model:   "",
		wantErr: "model identifier is required",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := New(ctx, tt.model, cfg)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("New() error = nil, wantErr containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("New() error = %v, wantErr containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if got := inv.Model(); got != tt.wantModel {
				t.Errorf("Model() = %q, want %q", got, tt.wantModel)
			}
		})
	}
}

func TestNewAzureRequiresAPIVersion(t *testing.T) {
	_, err := New(context.Background(), "gpt-4o", Config{
		APIKey:        "test-key",
		AzureEndpoint: "https://example.openai.azure.com",
	})
	if err == nil {
		t.Fatal("expected error for azure endpoint without api version")
	}
	if !strings.Contains(err.Error(), "azure api version") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRoster(t *testing.T) {
	ctx := context.Background()
	cfg := Config{APIKey: "test-key"}

	invokers, err := Roster(ctx, cfg, "gpt-4o", "claude-sonnet-4-20250514", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("Roster() unexpected error: %v", err)
	}
	if len(invokers) != 3 {
		t.Fatalf("Roster() returned %d invokers, want 3", len(invokers))
	}
	for i, want := range []string{"gpt-4o", "claude-sonnet-4-20250514", "gemini-2.5-flash"} {
		if got := invokers[i].Model(); got != want {
			t.Errorf("invoker %d model = %q, want %q", i, got, want)
		}
	}
}

func TestRosterPropagatesErrors(t *testing.T) {
	_, err := Roster(context.Background(), Config{APIKey: "test-key"}, "gpt-4o", "")
	if err == nil {
		t.Fatal("expected error for empty model in roster")
	}
	if !strings.Contains(err.Error(), `building invoker for ""`) {
		t.Errorf("unexpected error: %v", err)
	}
}
