/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiinvoker implements the judge call contract against the
// OpenAI Chat Completions API, reachable directly or through an Azure
// OpenAI deployment.
package openaiinvoker

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/invoker/retry"
	"chainguard.dev/summeval/judge/metrics"
)

// backend is the OpenAI implementation of invoker.Interface.
type backend struct {
	client       openai.Client
	model        string
	maxTokens    int64
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

// New creates an OpenAI invoker for the given client. The model defaults
// to gpt-4o; Azure deployments name their own models, so WithModel
// accepts any non-empty identifier.
func New(client openai.Client, opts ...Option) (invoker.Interface, error) {
	// Uses a unified meter across all backends, with the model name as a
	// dimension
	b := &backend{
		client:       client,
		model:        "gpt-4o",
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

	var messages []openai.ChatCompletionMessageParamUnion
	if conv.System != "" {
		messages = append(messages, openai.SystemMessage(conv.System))
	}
	messages = append(messages, openai.UserMessage(conv.User))

	params := openai.ChatCompletionNewParams{
		Model:            openai.ChatModel(b.model),
		Messages:         messages,
		MaxTokens:        openai.Int(b.maxTokens),
		N:                openai.Int(1),
		Temperature:      openai.Float(invoker.Temperature),
		TopP:             openai.Float(invoker.TopP),
		FrequencyPenalty: openai.Float(0),
		PresencePenalty:  openai.Float(0),
	}

	log.With("model", b.model).
		With("prompt_length", len(conv.System)+len(conv.User)).
		Debug("Invoking OpenAI")

	completion, err := retry.Do(ctx, b.retryConfig, "chat_completions", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return b.client.Chat.Completions.New(ctx, params)
	})
	b.genaiMetrics.RecordInvocation(ctx, b.model, err)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	b.genaiMetrics.RecordTokens(ctx, b.model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)

	if len(completion.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	text := completion.Choices[0].Message.Content
	if text == "" {
		return "", errors.New("no text content in response")
	}
	return text, nil
}
