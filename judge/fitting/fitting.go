/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package fitting

import (
	"context"
	"fmt"
	"sort"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/summeval/dataset/incontext"
	"chainguard.dev/summeval/dataset/samples"
	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/pipeline"
	"chainguard.dev/summeval/judge/result"
)

// Comparison is one criterion's judge-vs-human comparison for one
// sample. Quality holds the model's free-form verdict on how well the
// judge's reasoning matched the human's; it is kept verbatim.
type Comparison struct {
	Criteria       string   `json:"criteria"`
	ModelRating    int      `json:"model_rating"`
	HumanRating    int      `json:"human_rating"`
	ModelReasoning string   `json:"model_reasoning"`
	HumanReasoning string   `json:"human_reasoning"`
	Distance       Distance `json:"distance"`
	Quality        string   `json:"quality"`
}

// SampleComparisons groups one sample's comparisons under its dataset
// index.
type SampleComparisons struct {
	Index       int          `json:"index"`
	Comparisons []Comparison `json:"comparisons"`
}

// CriterionReport is the meta-level feedback for one criterion across
// every compared sample. Raw carries the verbatim model reply when it
// did not decode into the expected feedback fields.
type CriterionReport struct {
	Criteria         string `json:"criteria"`
	ScoreSimilarity  string `json:"score_similarity,omitempty"`
	ReasoningQuality string `json:"reasoning_quality,omitempty"`
	Raw              string `json:"raw,omitempty"`
}

// Report is a fitting run's full output: every per-sample comparison
// plus one aggregated report per criterion.
type Report struct {
	Samples []SampleComparisons `json:"samples"`
	Reports []CriterionReport   `json:"reports"`
}

// LearningRecords flattens the per-sample comparisons into harvestable
// records for the in-context example store. Each record replays the
// judge's own rating and reasoning, annotated with how far they sat
// from the human judgment.
func (r *Report) LearningRecords() []incontext.Record {
	var records []incontext.Record
	for _, sample := range r.Samples {
		for _, comparison := range sample.Comparisons {
			records = append(records, incontext.Record{
				Criteria:    comparison.Criteria,
				LikertScore: comparison.ModelRating,
				Reasoning:   comparison.ModelReasoning,
				Distance:    comparison.Distance,
				Quality:     comparison.Quality,
			})
		}
	}
	return records
}

// Pair is the fitting input for one sample: what the judge produced
// and what the human annotator said. Human may be empty when the
// dataset carries no judgment columns.
type Pair struct {
	Index       int
	Assessments []pipeline.Assessment
	Human       map[string]samples.Judgment
}

// Fitting compares judge output against human annotations and asks a
// model for meta-level feedback on the disagreements.
type Fitting struct {
	invoker invoker.Interface
}

// New builds a Fitting backed by the given model.
func New(inv invoker.Interface) (*Fitting, error) {
	if inv == nil {
		return nil, fmt.Errorf("invoker must not be nil")
	}
	return &Fitting{invoker: inv}, nil
}

// Run compares every pair criterion by criterion, then aggregates the
// comparisons into one report per criterion. Model failures along the
// way degrade the affected comparison or report, never the run; only
// context cancellation aborts it.
func (f *Fitting) Run(ctx context.Context, pairs []Pair) (*Report, error) {
	report := &Report{}
	byCriterion := map[string][]Comparison{}

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sample := SampleComparisons{Index: pair.Index}
		for _, assessment := range pair.Assessments {
			comparison := f.compare(ctx, pair, assessment)
			sample.Comparisons = append(sample.Comparisons, comparison)
			byCriterion[assessment.Criteria] = append(byCriterion[assessment.Criteria], comparison)
		}
		report.Samples = append(report.Samples, sample)
	}

	names := make([]string, 0, len(byCriterion))
	for name := range byCriterion {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Reports = append(report.Reports, f.qualityReport(ctx, name, byCriterion[name]))
	}
	return report, nil
}

// compare builds one criterion's comparison. A sample with no human
// judgment for the criterion compares against rating 0 with empty
// reasoning, the annotation format's encoding of "no error seen".
func (f *Fitting) compare(ctx context.Context, pair Pair, assessment pipeline.Assessment) Comparison {
	human, ok := pair.Human[assessment.Criteria]
	if !ok {
		clog.FromContext(ctx).With("index", pair.Index, "criterion", assessment.Criteria).
			Debugf("No human judgment; comparing against an implicit zero")
	}
	comparison := Comparison{
		Criteria:       assessment.Criteria,
		ModelRating:    assessment.Score.Rating,
		HumanRating:    human.Impact,
		ModelReasoning: assessment.Score.Reasoning,
		HumanReasoning: human.Reasoning,
	}
	comparison.Distance = Categorize(comparison.ModelRating, comparison.HumanRating)
	comparison.Quality = f.reasoningFeedback(ctx, comparison.ModelReasoning, comparison.HumanReasoning)

	clog.FromContext(ctx).With("index", pair.Index, "criterion", assessment.Criteria).
		Infof("Distance: %s", comparison.Distance.Category)
	return comparison
}

// reasoningFeedback asks the model how well the judge's reasoning
// matched the human's. The reply is free-form and kept verbatim; a
// failed call yields an empty verdict.
func (f *Fitting) reasoningFeedback(ctx context.Context, candidate, human string) string {
	log := clog.FromContext(ctx)
	user, err := buildReasoningUser(candidate, human)
	if err != nil {
		log.With("error", err).Warnf("binding reasoning comparison; skipping feedback")
		return ""
	}
	raw, err := f.invoker.Invoke(ctx, invoker.Conversation{System: reasoningSystemPrompt, User: user})
	if err != nil {
		log.With("error", err).Warnf("reasoning comparison call failed; skipping feedback")
		return ""
	}
	return raw
}

// qualityReport aggregates one criterion's comparisons into meta-level
// feedback. A reply that does not decode is preserved raw rather than
// discarded.
func (f *Fitting) qualityReport(ctx context.Context, criterion string, comparisons []Comparison) CriterionReport {
	log := clog.FromContext(ctx).With("criterion", criterion)
	report := CriterionReport{Criteria: criterion}

	user, err := buildReportUser(comparisons)
	if err != nil {
		log.With("error", err).Warnf("binding quality report prompt; skipping report")
		return report
	}
	raw, err := f.invoker.Invoke(ctx, invoker.Conversation{System: reportSystemPrompt, User: user})
	if err != nil {
		log.With("error", err).Warnf("quality report call failed; skipping report")
		return report
	}

	value, ok := result.Parse(raw).(map[string]any)
	if !ok {
		log.Warnf("quality report did not decode; keeping raw text")
		report.Raw = raw
		return report
	}
	report.ScoreSimilarity = result.String(value["score_similarity"], "")
	report.ReasoningQuality = result.String(value["reasoning_quality"], "")
	return report
}
