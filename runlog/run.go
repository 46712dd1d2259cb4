/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runlog

import (
	"context"
	"fmt"
	"path"

	"chainguard.dev/summeval/dataset/samples"
	"chainguard.dev/summeval/judge/pipeline"
)

// SampleArtifact is the JSON document persisted per evaluated sample.
// The key names are the historical artifact format.
type SampleArtifact struct {
	Evaluation *pipeline.Evaluation        `json:"score"`
	Human      map[string]samples.Judgment `json:"human_scores,omitempty"`
}

// Run scopes a sink to one iteration's artifact prefix.
type Run struct {
	sink   Sink
	prefix string
}

// NewRun builds the artifact writer for one iteration.
func NewRun(sink Sink, naming Naming) *Run {
	return &Run{sink: sink, prefix: naming.Prefix()}
}

// Prefix returns the iteration's artifact prefix.
func (r *Run) Prefix() string { return r.prefix }

// Sample persists one evaluated sample as sample_<index>.json under
// the run's prefix. The index is the sample's dataset index, not its
// position in the evaluated slice.
func (r *Run) Sample(ctx context.Context, index int, artifact SampleArtifact) error {
	return r.sink.Put(ctx, path.Join(r.prefix, fmt.Sprintf("sample_%d.json", index)), artifact)
}

// Closeness persists a fitting run's aggregated per-criterion reports
// as total_closeness.json under the run's prefix.
func (r *Run) Closeness(ctx context.Context, reports any) error {
	return r.sink.Put(ctx, path.Join(r.prefix, "total_closeness.json"), reports)
}
