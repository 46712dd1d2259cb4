/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metainvoker

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/invoker/openaiinvoker"
)

func newOpenAI(_ context.Context, model string, cfg Config) (invoker.Interface, error) {
	var requestOpts []option.RequestOption
	if cfg.AzureEndpoint != "" {
		if cfg.AzureAPIVersion == "" {
			return nil, errors.New("azure api version is required with an azure endpoint")
		}
		requestOpts = append(requestOpts,
			azure.WithEndpoint(cfg.AzureEndpoint, cfg.AzureAPIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	} else {
		requestOpts = append(requestOpts, option.WithAPIKey(cfg.APIKey))
	}

	client := openai.NewClient(requestOpts...)

	opts := []openaiinvoker.Option{
		openaiinvoker.WithModel(model),
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, openaiinvoker.WithMaxTokens(cfg.MaxTokens))
	}
	if cfg.Retry != nil {
		opts = append(opts, openaiinvoker.WithRetryConfig(*cfg.Retry))
	}

	inv, err := openaiinvoker.New(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI invoker: %w", err)
	}
	return inv, nil
}
