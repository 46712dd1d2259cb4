/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metainvoker

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/invoker/googleinvoker"
)

func newGemini(ctx context.Context, model string, cfg Config) (invoker.Interface, error) {
	clientConfig := &genai.ClientConfig{}
	if cfg.Project != "" {
		clientConfig.Project = cfg.Project
		clientConfig.Location = cfg.Region
		clientConfig.Backend = genai.BackendVertexAI
	} else {
		clientConfig.APIKey = cfg.APIKey
		clientConfig.Backend = genai.BackendGeminiAPI
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating Google AI client: %w", err)
	}

	opts := []googleinvoker.Option{
		googleinvoker.WithModel(model),
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, googleinvoker.WithMaxOutputTokens(int32(cfg.MaxTokens)))
	}
	if cfg.Retry != nil {
		opts = append(opts, googleinvoker.WithRetryConfig(*cfg.Retry))
	}

	inv, err := googleinvoker.New(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini invoker: %w", err)
	}
	return inv, nil
}
