/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package samples

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"
)

const (
	transcriptColumn = "Input"
	summaryColumn    = "Predicted"
)

// humanColumnLabels maps each criterion name to the column label
// prefixes its human judgment triple may appear under. Most criteria
// have one label; repetition was annotated as "Redundancy", and the
// structure existence column is misspelled "Structur" in the source
// data, so both spellings are accepted.
var humanColumnLabels = map[string][]string{
	"repetition":    {"Redundancy"},
	"incoherence":   {"Incoherence"},
	"language":      {"Language"},
	"omission":      {"Omission"},
	"coreference":   {"Coreference"},
	"hallucination": {"Hallucination"},
	"structure":     {"Structure", "Structur"},
	"irrelevance":   {"Irrelevance"},
}

// Sample is one summary under evaluation together with the transcript
// it summarizes. Index is the row's position in the full dataset and
// is stable under slicing, so artifact names line up across partial
// runs.
type Sample struct {
	Index      int
	Transcript string
	Summary    string
}

// Judgment is a human annotator's verdict on one criterion: whether
// the error exists, the annotator's reasoning, and an impact rating on
// the same 0-5 scale the judge uses.
type Judgment struct {
	Existence string `json:"existence"`
	Reasoning string `json:"reasoning"`
	Impact    int    `json:"impact"`
}

// Row is a sample plus its human judgments keyed by criterion name.
// Human is empty when the dataset carries no judgment columns.
type Row struct {
	Sample
	Human map[string]Judgment
}

// Dataset is the loaded evaluation corpus.
type Dataset struct {
	rows []Row
}

// Load reads a CSV evaluation corpus. The header must name the Input
// (transcript) and Predicted (summary) columns; human judgment columns
// are picked up when present and silently absent otherwise.
func Load(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening samples file %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Rows in annotated exports can be ragged; missing trailing
	// fields read as empty judgments rather than errors.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading samples header from %q: %w", path, err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	transcriptIdx, ok := columns[transcriptColumn]
	if !ok {
		return nil, fmt.Errorf("samples file %q has no %q column", path, transcriptColumn)
	}
	summaryIdx, ok := columns[summaryColumn]
	if !ok {
		return nil, fmt.Errorf("samples file %q has no %q column", path, summaryColumn)
	}

	judgmentColumns := locateJudgmentColumns(columns)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading samples from %q: %w", path, err)
	}

	ds := &Dataset{}
	for i, record := range records {
		row := Row{
			Sample: Sample{
				Index:      i,
				Transcript: field(record, transcriptIdx),
				Summary:    field(record, summaryIdx),
			},
		}
		if len(judgmentColumns) > 0 {
			row.Human = map[string]Judgment{}
			for criterion, cols := range judgmentColumns {
				row.Human[criterion] = Judgment{
					Existence: field(record, cols.existence),
					Reasoning: field(record, cols.reasoning),
					Impact:    parseImpact(field(record, cols.impact)),
				}
			}
		}
		ds.rows = append(ds.rows, row)
	}

	clog.FromContext(ctx).With("path", path).
		Infof("Loaded %d samples (%d judgment criteria)", len(ds.rows), len(judgmentColumns))
	return ds, nil
}

type judgmentColumnSet struct {
	existence, reasoning, impact int
}

// locateJudgmentColumns resolves the per-criterion "<Label> - Existence"
// / Reasoning / Impact columns, trying each accepted label spelling
// per column. A criterion is included only when all three columns
// resolve.
func locateJudgmentColumns(columns map[string]int) map[string]judgmentColumnSet {
	found := map[string]judgmentColumnSet{}
	for criterion, labels := range humanColumnLabels {
		set := judgmentColumnSet{
			existence: locate(columns, labels, "Existence"),
			reasoning: locate(columns, labels, "Reasoning"),
			impact:    locate(columns, labels, "Impact"),
		}
		if set.existence < 0 || set.reasoning < 0 || set.impact < 0 {
			continue
		}
		found[criterion] = set
	}
	return found
}

func locate(columns map[string]int, labels []string, suffix string) int {
	for _, label := range labels {
		if idx, ok := columns[label+" - "+suffix]; ok {
			return idx
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseImpact turns an impact cell into a 0-5 integer. Annotation
// exports carry them as "2", "2.0", or empty/NaN; anything unusable
// counts as 0 (no impact).
func parseImpact(cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsNaN(f) {
		return int(f)
	}
	return 0
}

// Len returns the number of rows in the full dataset.
func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns every row in dataset order.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	return out
}

// Slice returns rows[start:stop]. A stop of zero or less means "to the
// end"; both bounds are clamped so a partial-run config can never
// panic the loader. Row indexes are preserved, not renumbered.
func (d *Dataset) Slice(start, stop int) []Row {
	if start < 0 {
		start = 0
	}
	if start > len(d.rows) {
		start = len(d.rows)
	}
	if stop <= 0 || stop > len(d.rows) {
		stop = len(d.rows)
	}
	if stop < start {
		stop = start
	}
	out := make([]Row, stop-start)
	copy(out, d.rows[start:stop])
	return out
}
