/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package invoker

import "context"

// Sampling is pinned so repeated judgements of the same sample are as
// reproducible as the backends allow. Backends must not expose knobs
// that loosen this.
const (
	// Temperature is the sampling temperature used for every call.
	Temperature = 0.0
	// TopP is the nucleus sampling parameter used for every call.
	TopP = 1.0
)

// Conversation is the two-message exchange every judge call sends: a
// system message establishing the evaluator role and a user message
// carrying the material under evaluation.
type Conversation struct {
	System string
	User   string
}

// Interface is the contract shared by all model backends.
type Interface interface {
	// Invoke sends the conversation to the backing model and returns the
	// assistant's text. A non-nil error means no usable completion was
	// produced after retries were exhausted; callers are expected to
	// degrade (substitute a zeroed result) rather than abort the run.
	Invoke(ctx context.Context, conv Conversation) (string, error)

	// Model returns the identifier of the model this invoker targets.
	Model() string
}
