/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package incontext stores and replays in-context learning material:
// prior judgments the pipelines show the model as examples, free-text
// suggestions appended to three-step prompts, and the self-training
// harvest that turns a fitting run's disagreement records into the
// next run's example files.
package incontext
