/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiinvoker

import (
	"errors"

	"github.com/openai/openai-go"
)

// isRetryableOpenAIError checks if an error is a retryable OpenAI API error.
// Returns true for rate limit and transient server errors.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
