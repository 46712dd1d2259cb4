/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiinvoker

import (
	"errors"
	"fmt"

	"chainguard.dev/summeval/judge/invoker/retry"
)

// Option is a functional option for configuring the invoker
type Option func(*backend) error

// WithModel allows overriding the model name. Azure deployment names are
// caller-chosen, so any non-empty identifier is accepted.
func WithModel(model string) Option {
	return func(b *backend) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		b.model = model
		return nil
	}
}

// WithMaxTokens sets the maximum tokens for responses
func WithMaxTokens(tokens int64) Option {
	return func(b *backend) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		b.maxTokens = tokens
		return nil
	}
}

// WithRetryConfig overrides the default retry behavior
func WithRetryConfig(cfg retry.Config) Option {
	return func(b *backend) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		b.retryConfig = cfg
		return nil
	}
}
