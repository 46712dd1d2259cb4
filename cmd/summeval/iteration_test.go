/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chainguard.dev/summeval/dataset/samples"
	"chainguard.dev/summeval/judge/fitting"
	"chainguard.dev/summeval/judge/pipeline"
	"chainguard.dev/summeval/runlog"
)

// fixedStrategy replays one canned evaluation for every sample.
type fixedStrategy struct {
	evaluation *pipeline.Evaluation
}

func (f fixedStrategy) Name() string { return "fixed" }

func (f fixedStrategy) Run(context.Context, pipeline.Sample) (*pipeline.Evaluation, error) {
	return f.evaluation, nil
}

func TestRunIteration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "samples.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Input,Predicted,Hallucination - Existence,Hallucination - Reasoning,Hallucination - Impact\n"+
			"the team met on tuesday,the team met on friday,yes,wrong weekday,3\n",
	), 0o644), "writing samples fixture")

	ds, err := samples.Load(ctx, csvPath)
	require.NoError(t, err, "loading samples")

	fitter, err := fitting.New(staticInvoker{})
	require.NoError(t, err, "building fitter")

	cfg := config{
		SingleModel:   true,
		DoFitting:     true,
		SelfTraining:  true,
		InContextPath: filepath.Join(dir, "in_context"),
	}
	strategy := fixedStrategy{evaluation: &pipeline.Evaluation{
		Assessments: []pipeline.Assessment{{
			Criteria: "hallucination",
			Score:    pipeline.Score{Reasoning: "the summary moves the meeting", Confidence: 8, Rating: 3},
		}},
	}}
	sink := runlog.NewDirSink(filepath.Join(dir, "logs"))

	err = runIteration(ctx, cfg, pipeline.ModeOneByOne, 0, strategy, fitter, ds, sink)
	require.NoError(t, err, "running iteration")

	matches, err := filepath.Glob(filepath.Join(dir, "logs", "_ONE_BY_ONE", "iteration_0_*_SInstance_SFamily", "sample_0.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected one sample artifact")
	require.FileExists(t, filepath.Join(filepath.Dir(matches[0]), "total_closeness.json"))

	// An aligned comparison still harvests a learning record.
	require.FileExists(t, filepath.Join(dir, "in_context", "hallucination_fss.json"))

	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Contains(t, string(raw), `"human_scores"`)
	require.Contains(t, string(raw), "wrong weekday")
}

func TestRunIterationFittingDisabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "samples.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Input,Predicted\nthe transcript,the summary\n",
	), 0o644))

	ds, err := samples.Load(ctx, csvPath)
	require.NoError(t, err)

	strategy := fixedStrategy{evaluation: &pipeline.Evaluation{
		Assessments: []pipeline.Assessment{{Criteria: "omission"}},
	}}
	sink := runlog.NewDirSink(filepath.Join(dir, "logs"))

	cfg := config{SingleModel: true}
	require.NoError(t, runIteration(ctx, cfg, pipeline.ModeAllAtOnce, 2, strategy, nil, ds, sink))

	matches, err := filepath.Glob(filepath.Join(dir, "logs", "_ALL_AT_ONCE", "iteration_2_*", "sample_0.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// No fitter, no closeness artifact.
	closeness, err := filepath.Glob(filepath.Join(dir, "logs", "_ALL_AT_ONCE", "iteration_2_*", "total_closeness.json"))
	require.NoError(t, err)
	require.Empty(t, closeness)

	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.NotContains(t, string(raw), "human_scores")
}
