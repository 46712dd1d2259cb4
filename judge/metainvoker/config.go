/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metainvoker

import "chainguard.dev/summeval/judge/invoker/retry"

// Config carries the credentials and limits shared by every backend.
// Which fields matter depends on where the model identifier routes:
// Vertex AI models use Project/Region, Azure deployments use
// AzureEndpoint/APIVersion/APIKey, and direct vendor APIs use APIKey.
type Config struct {
	// MaxTokens caps completion length for every call. Zero keeps the
	// backend default.
	MaxTokens int64

	// APIKey authenticates direct OpenAI, Azure OpenAI, Anthropic, and
	// Gemini API calls.
	APIKey string

	// AzureEndpoint, when set, routes OpenAI-style models through an
	// Azure OpenAI resource instead of api.openai.com.
	AzureEndpoint string

	// AzureAPIVersion selects the Azure OpenAI REST API version.
	// Required when AzureEndpoint is set.
	AzureAPIVersion string

	// Project and Region, when set, route claude-* and gemini-* models
	// through Vertex AI with ambient Google credentials instead of
	// vendor API keys.
	Project string
	Region  string

	// Retry overrides the default retry policy when non-nil.
	Retry *retry.Config
}
