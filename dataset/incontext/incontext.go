/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package incontext

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chainguard.dev/summeval/judge/result"
	"github.com/chainguard-dev/clog"
)

// Record is one learning sample harvested from a fitting run: the
// judged criterion, the model's rating and reasoning, and the
// fitting outputs describing how far the model sat from the human
// annotator. Distance and Quality are written as produced and are not
// read back by the loaders.
type Record struct {
	Criteria    string `json:"criteria"`
	LikertScore int    `json:"likert_score"`
	Reasoning   string `json:"reasoning"`
	Distance    any    `json:"distance,omitempty"`
	Quality     any    `json:"quality,omitempty"`
}

// Example is a prior judgment replayed to a pipeline as an in-context
// example: the rating a past run gave for a criterion and the
// reasoning behind it.
type Example struct {
	LikertScore int
	Reasoning   string
}

// LoadExamples reads a directory of harvested example files, keyed by
// the criterion name (the file name up to the first underscore). Each
// file holds a JSON array of records; only the first record's
// likert_score and reasoning are replayed. A missing directory is a
// normal first-run state, not an error.
func LoadExamples(ctx context.Context, dir string) (map[string]Example, error) {
	log := clog.FromContext(ctx).With("dir", dir)

	examples := map[string]Example{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Infof("No in-context example directory; continuing without examples")
			return examples, nil
		}
		return nil, fmt.Errorf("reading in-context example directory %q: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading in-context example file %q: %w", path, err)
		}
		var records []map[string]any
		if err := json.Unmarshal(raw, &records); err != nil {
			log.With("file", entry.Name()).Warnf("Skipping unparseable example file: %v", err)
			continue
		}
		if len(records) == 0 {
			log.With("file", entry.Name()).Warnf("Skipping empty example file")
			continue
		}
		criterion, _, _ := strings.Cut(entry.Name(), "_")
		first := records[0]
		examples[criterion] = Example{
			LikertScore: result.Int(first["likert_score"], 0),
			Reasoning:   result.String(first["reasoning"], ""),
		}
	}

	log.Infof("Loaded in-context examples for %d criteria", len(examples))
	return examples, nil
}

// noSuggestion substitutes for feedback entries without a suggestions
// field, matching what downstream prompts historically received.
const noSuggestion = "No suggestion available"

// LoadSuggestions reads a single feedback file mapping criterion keys
// (historically "<criterion>_scores.csv") to objects carrying a
// suggestions string the three-step strategy appends to its system
// prompt. A missing path, a directory (the example-store layout shares
// the config knob), or an unparseable file yields no suggestions rather
// than an error: feedback is an enrichment, never a precondition.
func LoadSuggestions(ctx context.Context, path string) (map[string]string, error) {
	log := clog.FromContext(ctx).With("path", path)

	suggestions := map[string]string{}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Infof("No feedback file; continuing without suggestions")
			return suggestions, nil
		}
		return nil, fmt.Errorf("checking feedback file %q: %w", path, err)
	}
	if info.IsDir() {
		log.Infof("Feedback path is a directory; continuing without suggestions")
		return suggestions, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feedback file %q: %w", path, err)
	}

	var feedback map[string]struct {
		Suggestions string `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &feedback); err != nil {
		log.Warnf("Feedback file is not parseable; continuing without suggestions: %v", err)
		return suggestions, nil
	}

	for key, entry := range feedback {
		criterion := strings.TrimSuffix(key, "_scores.csv")
		suggestion := entry.Suggestions
		if suggestion == "" {
			suggestion = noSuggestion
		}
		suggestions[criterion] = suggestion
	}

	log.Infof("Loaded suggestions for %d criteria", len(suggestions))
	return suggestions, nil
}

// Harvest groups learning records by criterion and writes each group
// to <criterion>_fss.json under dir, creating the directory when
// needed. These files are the example source LoadExamples reads on the
// next run, which is how one run's disagreements become the next
// run's calibration.
func Harvest(ctx context.Context, dir string, records []Record) error {
	if len(records) == 0 {
		clog.FromContext(ctx).Infof("No learning records to harvest")
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating in-context example directory %q: %w", dir, err)
	}

	grouped := map[string][]Record{}
	for _, record := range records {
		grouped[record.Criteria] = append(grouped[record.Criteria], record)
	}
	criteria := make([]string, 0, len(grouped))
	for criterion := range grouped {
		criteria = append(criteria, criterion)
	}
	sort.Strings(criteria)

	for _, criterion := range criteria {
		raw, err := json.MarshalIndent(grouped[criterion], "", "  ")
		if err != nil {
			return fmt.Errorf("encoding learning records for %q: %w", criterion, err)
		}
		path := filepath.Join(dir, criterion+"_fss.json")
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("writing learning records to %q: %w", path, err)
		}
	}

	clog.FromContext(ctx).With("dir", dir).
		Infof("Harvested %d learning records into %d criterion files", len(records), len(criteria))
	return nil
}
