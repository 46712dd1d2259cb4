/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package samples ingests the CSV evaluation corpus: machine-generated
// meeting summaries paired with their source transcripts, optionally
// annotated with per-criterion human judgments for fitting runs.
package samples
