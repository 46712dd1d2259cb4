/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metainvoker constructs the right invoker backend from a model
// identifier, so callers configure models by name alone.
package metainvoker

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/summeval/judge/invoker"
)

// New creates an invoker for the given model identifier:
//   - Models starting with "claude-" use Anthropic's SDK, directly or via Vertex AI
//   - Models starting with "gemini-" use Google's Generative AI SDK
//   - Everything else (gpt-*, o*, Azure deployment names) uses the OpenAI SDK
func New(ctx context.Context, model string, cfg Config) (invoker.Interface, error) {
	if model == "" {
		return nil, fmt.Errorf("model identifier is required")
	}

	modelLower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(modelLower, "claude-"):
		return newClaude(ctx, model, cfg)
	case strings.HasPrefix(modelLower, "gemini-"):
		return newGemini(ctx, model, cfg)
	default:
		return newOpenAI(ctx, model, cfg)
	}
}

// Roster creates one invoker per model identifier, in order.
// Deliberation panels seat their agents from a roster.
func Roster(ctx context.Context, cfg Config, models ...string) ([]invoker.Interface, error) {
	invokers := make([]invoker.Interface, 0, len(models))
	for _, model := range models {
		inv, err := New(ctx, model, cfg)
		if err != nil {
			return nil, fmt.Errorf("building invoker for %q: %w", model, err)
		}
		invokers = append(invokers, inv)
	}
	return invokers, nil
}
