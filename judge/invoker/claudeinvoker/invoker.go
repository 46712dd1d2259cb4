/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeinvoker implements the judge call contract against the
// Anthropic Messages API, reachable directly or through Vertex AI.
package claudeinvoker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/invoker/retry"
	"chainguard.dev/summeval/judge/metrics"
)

// backend is the Claude implementation of invoker.Interface.
type backend struct {
	client       anthropic.Client
	model        string
	maxTokens    int64
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

// New creates a Claude invoker for the given client.
func New(client anthropic.Client, opts ...Option) (invoker.Interface, error) {
	// Uses a unified meter across all backends, with the model name as a
	// dimension
	b := &backend{
		client:       client,
		model:        "claude-sonnet-4-20250514",
		maxTokens:    1000,
		retryConfig:  retry.Default(),
		genaiMetrics: metrics.NewGenAI("summeval.judge"),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return b, nil
}

// Model implements invoker.Interface.
func (b *backend) Model() string {
	return b.model
}

// Invoke implements invoker.Interface.
func (b *backend) Invoke(ctx context.Context, conv invoker.Conversation) (string, error) {
	log := clog.FromContext(ctx)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(b.model),
		MaxTokens:   b.maxTokens,
		Temperature: anthropic.Float(invoker.Temperature),
		TopP:        anthropic.Float(invoker.TopP),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(conv.User),
			},
		}},
	}
	if conv.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: conv.System}}
	}

	log.With("model", b.model).
		With("prompt_length", len(conv.System)+len(conv.User)).
		Debug("Invoking Claude")

	message, err := retry.Do(ctx, b.retryConfig, "claude_messages", isRetryableClaudeError, func() (*anthropic.Message, error) {
		return b.client.Messages.New(ctx, params)
	})
	b.genaiMetrics.RecordInvocation(ctx, b.model, err)
	if err != nil {
		return "", fmt.Errorf("claude completion failed: %w", err)
	}

	b.genaiMetrics.RecordTokens(ctx, b.model, message.Usage.InputTokens, message.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("no text content in response")
	}
	return text.String(), nil
}
