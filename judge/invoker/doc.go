/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package invoker defines the model-call contract the judge is built on.
//
// Every interaction with a language model in this repository is a
// single-turn conversation: one system message, one user message, one
// assistant reply. The invoker.Interface captures exactly that shape and
// nothing more, which keeps the pipelines, the deliberation panel, and
// the fitting stage indifferent to which vendor is behind a given model
// identifier.
//
// Concrete backends live in the subpackages openaiinvoker,
// claudeinvoker and googleinvoker; metainvoker selects among them from
// a model identifier. All backends share the retry subpackage for rate
// limit handling, pin the same sampling profile, and report token usage
// through judge/metrics.
package invoker
