/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package runlog persists per-iteration evaluation artifacts.
//
// Every artifact is an indented JSON document written under an
// iteration prefix that encodes the strategy, start time, and panel
// configuration of the run that produced it. Sinks decide where the
// bytes land: a local directory, a GCS bucket, or both at once.
package runlog
