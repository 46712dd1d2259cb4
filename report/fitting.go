/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"chainguard.dev/sdk/pathtree"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"chainguard.dev/summeval/judge/fitting"
)

var alignedResult = color.New(color.FgGreen).SprintFunc()
var divergedResult = color.New(color.FgRed).SprintFunc()

// categoryOrder fixes the table columns from least to most severe.
var categoryOrder = []fitting.Category{
	fitting.NoDifference,
	fitting.MinorDifference,
	fitting.ModerateDifference,
	fitting.MajorDifference,
	fitting.ErrorDetectionDiscrepancy,
}

// Fitting renders a fitting report: a per-criterion alignment table, a
// tree of every compared sample with its disagreements as child rows,
// and the supervisor feedback gathered for each criterion.
func Fitting(rep *fitting.Report) string {
	if rep == nil || len(rep.Samples) == 0 {
		return ""
	}

	var report strings.Builder

	if summaryTable := alignmentTable(rep); summaryTable != "" {
		report.WriteString(summaryTable)
		report.WriteString("\n")
	}
	report.WriteString(sampleTree(rep))
	if feedback := supervisorFeedback(rep); feedback != "" {
		report.WriteString("\n## Supervisor Feedback\n\n")
		report.WriteString(feedback)
	}

	return report.String()
}

// criterionTally accumulates one criterion's distance distribution.
type criterionTally struct {
	counts map[fitting.Category]int
	total  int
	deltas int
}

// alignmentTable summarizes how each criterion's ratings sat against
// the human annotations across every compared sample. Criteria with a
// major difference or a detection discrepancy are flagged.
func alignmentTable(rep *fitting.Report) string {
	tallies := map[string]*criterionTally{}
	for _, sample := range rep.Samples {
		for _, comparison := range sample.Comparisons {
			tally := tallies[comparison.Criteria]
			if tally == nil {
				tally = &criterionTally{counts: map[fitting.Category]int{}}
				tallies[comparison.Criteria] = tally
			}
			tally.counts[comparison.Distance.Category]++
			tally.total++
			tally.deltas += comparison.Distance.Delta
		}
	}
	if len(tallies) == 0 {
		return ""
	}

	names := make([]string, 0, len(tallies))
	for name := range tallies {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := []string{"Criterion"}
	for _, category := range categoryOrder {
		headers = append(headers, categoryHeader(category))
	}
	headers = append(headers, "Avg Delta")

	var buf bytes.Buffer
	table := markdownTable(&buf, headers)

	for _, name := range names {
		tally := tallies[name]
		row := []string{name}
		for _, category := range categoryOrder {
			row = append(row, fmt.Sprintf("%d", tally.counts[category]))
		}

		avg := fmt.Sprintf("%.2f", float64(tally.deltas)/float64(tally.total))
		if tally.counts[fitting.MajorDifference]+tally.counts[fitting.ErrorDetectionDiscrepancy] > 0 {
			avg = fmt.Sprintf("❌ %s", avg)
		}
		row = append(row, avg)

		_ = table.Append(row)
	}
	_ = table.Render()

	return fmt.Sprintf("## Summary Table\n\n%s", buf.String())
}

// markdownTable builds a pipe table in the GitHub dialect, so the
// rendered report pastes into issues and docs unchanged. Cells keep
// their exact text: no auto-formatting, no wrapping, no trimming, since
// delta values and the severity flag are meaningful byte for byte.
func markdownTable(w io.Writer, headers []string) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row:      tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			MaxWidth: 80,
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// categoryHeader shortens a category label to a column-width name.
func categoryHeader(category fitting.Category) string {
	switch category {
	case fitting.NoDifference:
		return "None"
	case fitting.MinorDifference:
		return "Minor"
	case fitting.ModerateDifference:
		return "Moderate"
	case fitting.MajorDifference:
		return "Major"
	case fitting.ErrorDetectionDiscrepancy:
		return "Detection"
	}
	return string(category)
}

// sampleTree lists every compared sample with its alignment count.
// Criteria whose ratings diverged hang off the sample as child rows
// carrying the distance detail.
func sampleTree(rep *fitting.Report) string {
	tree := pathtree.New()
	tree.PrintOption = pathtree.KeyValueLabel

	for _, sample := range rep.Samples {
		var diverging []fitting.Comparison
		severe := false
		for _, comparison := range sample.Comparisons {
			if comparison.Distance.Category == fitting.NoDifference {
				continue
			}
			diverging = append(diverging, comparison)
			switch comparison.Distance.Category {
			case fitting.MajorDifference, fitting.ErrorDetectionDiscrepancy:
				severe = true
			}
		}

		name := fmt.Sprintf("sample_%d", sample.Index)
		value := fmt.Sprintf("%d/%d aligned", len(sample.Comparisons)-len(diverging), len(sample.Comparisons))
		switch {
		case severe:
			value = divergedResult(value)
		case len(diverging) == 0:
			value = alignedResult(value)
		}
		if err := tree.Add(name, value, ""); err != nil {
			_ = tree.Update(name, value, "")
		}

		for _, comparison := range diverging {
			path := fmt.Sprintf("%s/%s", name, comparison.Criteria)
			_ = tree.Add(path, string(comparison.Distance.Category), comparison.Distance.Detail)
		}
	}

	return tree.String()
}

// supervisorFeedback lays out the per-criterion meta feedback. Reports
// that did not decode keep the raw model reply.
func supervisorFeedback(rep *fitting.Report) string {
	var sb strings.Builder
	for _, criterionReport := range rep.Reports {
		fmt.Fprintf(&sb, "### %s\n\n", criterionReport.Criteria)
		switch {
		case criterionReport.Raw != "":
			sb.WriteString(criterionReport.Raw)
			sb.WriteString("\n\n")
		case criterionReport.ScoreSimilarity == "" && criterionReport.ReasoningQuality == "":
			sb.WriteString("No feedback produced.\n\n")
		default:
			if criterionReport.ScoreSimilarity != "" {
				fmt.Fprintf(&sb, "Score similarity: %s\n\n", criterionReport.ScoreSimilarity)
			}
			if criterionReport.ReasoningQuality != "" {
				fmt.Fprintf(&sb, "Reasoning quality: %s\n\n", criterionReport.ReasoningQuality)
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
