/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the summary evaluation pipeline: load criteria and
// samples, judge every sample with the configured strategy, and
// optionally compare the judgments against human annotations and
// harvest the disagreements as in-context examples for the next run.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"

	"chainguard.dev/summeval/dataset/criteria"
	"chainguard.dev/summeval/dataset/incontext"
	"chainguard.dev/summeval/dataset/samples"
	"chainguard.dev/summeval/judge/fitting"
	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/invoker/retry"
	"chainguard.dev/summeval/judge/metainvoker"
	"chainguard.dev/summeval/judge/panel"
	"chainguard.dev/summeval/judge/pipeline"
	"chainguard.dev/summeval/report"
	"chainguard.dev/summeval/runlog"
)

type config struct {
	Mode        int  `env:"MODE,default=0"`
	SingleModel bool `env:"SINGLE_MODEL,default=true"`
	MultiFamily bool `env:"MULTI_FAMILY,default=false"`

	ModelName   string   `env:"MODEL_NAME,default=gpt-4o"`
	PanelModels []string `env:"PANEL_MODELS"`
	PanelSize   int      `env:"PANEL_SIZE,default=3"`
	PanelRounds int      `env:"PANEL_ROUNDS,default=1"`
	Parallelism int      `env:"PARALLELISM,default=1"`

	APIKey     string `env:"API_KEY"`
	APIVersion string `env:"API_VERSION"`
	Endpoint   string `env:"ENDPOINT"`
	Project    string `env:"GOOGLE_CLOUD_PROJECT"`
	Region     string `env:"GOOGLE_CLOUD_REGION"`

	MaxTokens  int64         `env:"MAX_TOKENS,default=4000"`
	MaxRetries *int          `env:"MAX_RETRIES"`
	BaseDelay  time.Duration `env:"BASE_DELAY"`

	CriteriaPath  string `env:"CRITERIA_PATH,required"`
	SamplesPath   string `env:"SAMPLES_PATH,required"`
	InContextPath string `env:"IN_CONTEXT_LEARNING_SAMPLES,default=in_context/"`

	LoggingDirectory string `env:"LOGGING_DIRECTORY,default=./_logs/"`
	LoggingBucket    string `env:"LOGGING_BUCKET"`

	DoFitting    bool `env:"DO_FITTING,default=false"`
	SelfTraining bool `env:"SELF_TRAINING,default=false"`

	StartIndex int `env:"START_INDEX,default=0"`
	StopIndex  int `env:"STOP_INDEX,default=0"`
	Iterations int `env:"ITERATIONS,default=1"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	// Logging policy is installed here, once, rather than through
	// package init side effects.
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	ctx = clog.WithLogger(ctx, logger)

	mode, err := pipeline.ParseMode(cfg.Mode)
	if err != nil {
		clog.FatalContextf(ctx, "parsing mode: %v", err)
	}

	set, err := criteria.Load(ctx, cfg.CriteriaPath)
	if err != nil {
		clog.FatalContextf(ctx, "loading criteria: %v", err)
	}
	clog.InfoContextf(ctx, "Loaded %d criteria from %s", set.Len(), cfg.CriteriaPath)

	ds, err := samples.Load(ctx, cfg.SamplesPath)
	if err != nil {
		clog.FatalContextf(ctx, "loading samples: %v", err)
	}
	clog.InfoContextf(ctx, "Loaded %d samples from %s", ds.Len(), cfg.SamplesPath)

	mcfg := metainvoker.Config{
		MaxTokens:       cfg.MaxTokens,
		APIKey:          cfg.APIKey,
		AzureEndpoint:   cfg.Endpoint,
		AzureAPIVersion: cfg.APIVersion,
		Project:         cfg.Project,
		Region:          cfg.Region,
		Retry:           retryOverride(cfg),
	}

	inv, err := metainvoker.New(ctx, cfg.ModelName, mcfg)
	if err != nil {
		clog.FatalContextf(ctx, "building invoker for %q: %v", cfg.ModelName, err)
	}

	strategy, err := buildStrategy(ctx, cfg, mode, inv, mcfg, set)
	if err != nil {
		clog.FatalContextf(ctx, "building %s strategy: %v", mode, err)
	}

	var fitter *fitting.Fitting
	if cfg.DoFitting {
		if fitter, err = fitting.New(inv); err != nil {
			clog.FatalContextf(ctx, "building fitter: %v", err)
		}
	}

	sink, err := buildSink(ctx, cfg)
	if err != nil {
		clog.FatalContextf(ctx, "building artifact sink: %v", err)
	}

	clog.InfoContextf(ctx, "Using model %s with pipeline mode %d (%s)", cfg.ModelName, cfg.Mode, mode)

	for iteration := range cfg.Iterations {
		if err := runIteration(ctx, cfg, mode, iteration, strategy, fitter, ds, sink); err != nil {
			clog.FatalContextf(ctx, "iteration %d: %v", iteration, err)
		}
		clog.InfoContextf(ctx, "Iteration %d completed", iteration)
	}
	clog.InfoContextf(ctx, "All %d iterations finished", cfg.Iterations)
}

// runIteration judges the configured sample range once, persisting each
// artifact as it lands, then runs the optional fitting and
// self-training stages. Per-sample failures are logged and skipped;
// only context cancellation or a fitting abort ends the iteration.
func runIteration(ctx context.Context, cfg config, mode pipeline.Mode, iteration int, strategy pipeline.Strategy, fitter *fitting.Fitting, ds *samples.Dataset, sink runlog.Sink) error {
	run := runlog.NewRun(sink, runlog.Naming{
		Iteration:   iteration,
		Started:     time.Now(),
		MultiAgent:  !cfg.SingleModel,
		MultiFamily: cfg.MultiFamily,
		Mode:        mode,
	})
	clog.InfoContextf(ctx, "Starting iteration %d, artifacts under %s", iteration, run.Prefix())

	rows := ds.Slice(cfg.StartIndex, cfg.StopIndex)
	clog.InfoContextf(ctx, "Processing %d rows from index %d", len(rows), cfg.StartIndex)

	var pairs []fitting.Pair
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		evaluation, err := strategy.Run(ctx, pipeline.Sample{Transcript: row.Transcript, Summary: row.Summary})
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			clog.FromContext(ctx).With("index", row.Index, "error", err).Warnf("Skipping sample")
			continue
		}

		artifact := runlog.SampleArtifact{Evaluation: evaluation}
		if cfg.DoFitting {
			artifact.Human = row.Human
			pairs = append(pairs, fitting.Pair{Index: row.Index, Assessments: evaluation.Assessments, Human: row.Human})
		}
		if err := run.Sample(ctx, row.Index, artifact); err != nil {
			clog.FromContext(ctx).With("index", row.Index, "error", err).Warnf("Persisting sample artifact failed")
		}
	}

	if fitter == nil {
		clog.InfoContextf(ctx, "Fitting stage disabled")
		return nil
	}

	clog.InfoContextf(ctx, "Fitting %d samples against human judgments", len(pairs))
	rep, err := fitter.Run(ctx, pairs)
	if err != nil {
		return fmt.Errorf("fitting: %w", err)
	}
	if err := run.Closeness(ctx, rep.Reports); err != nil {
		clog.FromContext(ctx).With("error", err).Warnf("Persisting closeness report failed")
	}
	if out := report.Fitting(rep); out != "" {
		fmt.Println(out)
	}

	if !cfg.SelfTraining {
		clog.InfoContextf(ctx, "Self-training disabled")
		return nil
	}
	if err := incontext.Harvest(ctx, cfg.InContextPath, rep.LearningRecords()); err != nil {
		clog.FromContext(ctx).With("error", err).Warnf("Harvesting learning records failed")
	}
	return nil
}

// buildStrategy assembles the configured strategy. The all-at-once and
// one-by-one strategies replay harvested examples; the three-step
// strategy reads calibration suggestions and judges through a single
// model or a deliberation panel.
func buildStrategy(ctx context.Context, cfg config, mode pipeline.Mode, inv invoker.Interface, mcfg metainvoker.Config, set *criteria.Set) (pipeline.Strategy, error) {
	var opts []pipeline.Option
	if cfg.Parallelism > 1 {
		opts = append(opts, pipeline.WithParallelism(cfg.Parallelism))
	}

	switch mode {
	case pipeline.ModeAllAtOnce, pipeline.ModeOneByOne:
		examples, err := incontext.LoadExamples(ctx, cfg.InContextPath)
		if err != nil {
			return nil, err
		}
		if len(examples) > 0 {
			opts = append(opts, pipeline.WithExamples(examples))
		}
		if mode == pipeline.ModeAllAtOnce {
			return pipeline.NewAllAtOnce(inv, set, opts...)
		}
		return pipeline.NewOneByOne(inv, set, opts...)
	}

	suggestions, err := incontext.LoadSuggestions(ctx, cfg.InContextPath)
	if err != nil {
		return nil, err
	}
	if len(suggestions) > 0 {
		opts = append(opts, pipeline.WithSuggestions(suggestions))
	}

	exec, err := buildStepExecutor(ctx, cfg, inv, mcfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewThreeStep(exec, set, opts...)
}

// buildStepExecutor picks single-model or panel execution for the
// three-step strategy. Multi-family panels seat agents across the
// configured model list; single-family panels replicate the primary
// model.
func buildStepExecutor(ctx context.Context, cfg config, inv invoker.Interface, mcfg metainvoker.Config) (pipeline.StepExecutor, error) {
	if cfg.SingleModel {
		return pipeline.DirectExecutor{Invoker: inv}, nil
	}

	models := []string{cfg.ModelName}
	if cfg.MultiFamily && len(cfg.PanelModels) > 0 {
		models = cfg.PanelModels
	}
	roster, err := metainvoker.Roster(ctx, mcfg, models...)
	if err != nil {
		return nil, err
	}
	return pipeline.PanelExecutor{
		Roster:  roster,
		Options: []panel.Option{panel.WithSize(cfg.PanelSize), panel.WithRounds(cfg.PanelRounds)},
	}, nil
}

// buildSink assembles artifact persistence: always a local directory,
// plus a GCS bucket when one is configured.
func buildSink(ctx context.Context, cfg config) (runlog.Sink, error) {
	var sink runlog.Sink = runlog.NewDirSink(cfg.LoggingDirectory)
	if cfg.LoggingBucket == "" {
		return sink, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return runlog.MultiSink{sink, runlog.NewBucketSink(client, cfg.LoggingBucket)}, nil
}

// retryOverride translates the optional retry tuning knobs into a retry
// config, starting from the defaults. Returns nil when neither knob is
// set so backends keep their own defaults.
func retryOverride(cfg config) *retry.Config {
	if cfg.MaxRetries == nil && cfg.BaseDelay <= 0 {
		return nil
	}
	rc := retry.Default()
	if cfg.MaxRetries != nil {
		rc.MaxRetries = *cfg.MaxRetries
	}
	if cfg.BaseDelay > 0 {
		rc.BaseBackoff = cfg.BaseDelay
	}
	return &rc
}

// parseLevel maps a configured level name onto slog. Unknown names fall
// back to info.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
