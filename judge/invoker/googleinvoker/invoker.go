/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleinvoker implements the judge call contract against
// Gemini models, through Vertex AI or the Gemini API.
package googleinvoker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/invoker/retry"
	"chainguard.dev/summeval/judge/metrics"
)

// backend is the Gemini implementation of invoker.Interface.
type backend struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
	retryConfig     retry.Config
	genaiMetrics    *metrics.GenAI
}

// New creates a Gemini invoker for the given client.
func New(client *genai.Client, opts ...Option) (invoker.Interface, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}

	// Uses a unified meter across all backends, with the model name as a
	// dimension
	b := &backend{
		client:          client,
		model:           "gemini-2.5-flash",
		maxOutputTokens: 1000,
		retryConfig:     retry.Default(),
		genaiMetrics:    metrics.NewGenAI("summeval.judge"),
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

	config := &genai.GenerateContentConfig{
		Temperature:     ptr(float32(invoker.Temperature)),
		TopP:            ptr(float32(invoker.TopP)),
		MaxOutputTokens: b.maxOutputTokens,
	}
	if conv.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{
				Text: conv.System,
			}},
		}
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{{
			Text: conv.User,
		}},
	}}

	log.With("model", b.model).
		With("prompt_length", len(conv.System)+len(conv.User)).
		Debug("Invoking Gemini")

	response, err := retry.Do(ctx, b.retryConfig, "generate_content", isRetryableVertexError, func() (*genai.GenerateContentResponse, error) {
		return b.client.Models.GenerateContent(ctx, b.model, contents, config)
	})
	b.genaiMetrics.RecordInvocation(ctx, b.model, err)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	if response.UsageMetadata != nil {
		b.genaiMetrics.RecordTokens(ctx, b.model,
			int64(response.UsageMetadata.PromptTokenCount),
			int64(response.UsageMetadata.CandidatesTokenCount))
	}

	if len(response.Candidates) == 0 {
		return "", errors.New("no content generated - no candidates")
	}
	candidate := response.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content generated - empty candidate")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", errors.New("no text content in response")
	}
	return text.String(), nil
}

func ptr[T any](v T) *T {
	return &v
}
