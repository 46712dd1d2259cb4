/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleinvoker

import (
	"fmt"
	"strings"

	"chainguard.dev/summeval/judge/invoker/retry"
)

// Option is a functional option for configuring the invoker
type Option func(*backend) error

// WithModel allows overriding the model name
func WithModel(model string) Option {
	return func(b *backend) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		b.model = model
		return nil
	}
}

// WithMaxOutputTokens sets the maximum tokens for responses
func WithMaxOutputTokens(tokens int32) Option {
	return func(b *backend) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		b.maxOutputTokens = tokens
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
