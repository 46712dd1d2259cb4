/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package fitting measures how closely the judge tracks human
// annotators.
//
// For every evaluated sample it compares the judge's rating and
// reasoning against the human judgment per criterion: ratings are
// categorized by Categorize (detection disagreements outrank numeric
// gaps), reasonings are compared by a model whose free-form verdict is
// kept verbatim. The per-criterion comparisons then aggregate into one
// meta-level report each, and the whole run flattens into learning
// records the self-training stage can harvest as future in-context
// examples.
package fitting
