/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures retry behavior for model API calls.
// Quota-based rate limits recover per time window, so the defaults lean
// toward longer waits than a typical RPC retry policy would use.
type Config struct {
	// MaxRetries is the maximum number of retry attempts after the
	// initial call (default: 5). 0 means do not retry at all.
	MaxRetries int
	// BaseBackoff is the initial backoff duration (default: 2s).
	BaseBackoff time.Duration
	// MaxBackoff is the maximum backoff duration (default: 64s).
	MaxBackoff time.Duration
	// MaxJitter is the maximum random jitter added to backoff (default: 1s).
	MaxJitter time.Duration
	// Pace is slept after every attempt, successful or not, before the
	// result is returned or the next attempt is classified. Provider
	// quotas are windowed, so even successes wait out part of the
	// window (default: 3s).
	Pace time.Duration
}

// Validate checks that the retry configuration has valid values.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.BaseBackoff < 0 {
		return errors.New("base backoff cannot be negative")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	if c.MaxJitter < 0 {
		return errors.New("max jitter cannot be negative")
	}
	if c.Pace < 0 {
		return errors.New("pace cannot be negative")
	}
	return nil
}

// Default returns the retry configuration used for judge model calls.
func Default() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: 2 * time.Second,
		MaxBackoff:  64 * time.Second,
		MaxJitter:   1 * time.Second,
		Pace:        3 * time.Second,
	}
}

// Do executes the given function with paced, exponential-backoff retry.
// Only errors classified as retryable by isRetryable are retried; any
// other error is returned immediately after the pace delay.
func Do[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = fn()

		// Pace unconditionally. A success returned without pacing would
		// let tight caller loops burn the quota window.
		sleep(ctx, cfg.Pace)

		if lastErr == nil {
			return result, nil
		}

		if !isRetryable(lastErr) {
			return result, lastErr
		}

		if attempt >= cfg.MaxRetries {
			break
		}

		// Exponential backoff: BaseBackoff * 2^attempt, capped at MaxBackoff.
		backoff := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff)

		// Random jitter to avoid thundering herd
		var jitter time.Duration
		if cfg.MaxJitter > 0 {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter)))
			if err == nil {
				jitter = time.Duration(n.Int64())
			}
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", backoff+jitter).
			With("error", lastErr.Error()).
			Warn("Rate limit hit, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}

	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
}

// sleep waits for d or until the context ends, whichever comes first.
// Cancellation here is not an error: a completed attempt's outcome is
// still preserved by the caller.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
