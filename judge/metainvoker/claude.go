/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metainvoker

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/invoker/claudeinvoker"
)

func newClaude(ctx context.Context, model string, cfg Config) (invoker.Interface, error) {
	var client anthropic.Client
	if cfg.Project != "" {
		client = anthropic.NewClient(
			vertex.WithGoogleAuth(ctx, cfg.Region, cfg.Project),
		)
	} else {
		client = anthropic.NewClient(
			option.WithAPIKey(cfg.APIKey),
		)
	}

	opts := []claudeinvoker.Option{
		claudeinvoker.WithModel(model),
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, claudeinvoker.WithMaxTokens(cfg.MaxTokens))
	}
	if cfg.Retry != nil {
		opts = append(opts, claudeinvoker.WithRetryConfig(*cfg.Retry))
	}

	inv, err := claudeinvoker.New(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Claude invoker: %w", err)
	}
	return inv, nil
}
