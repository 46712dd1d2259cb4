/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders fitting output for humans. A run produces a
// markdown alignment table per criterion, a tree of the samples where
// judge and human disagreed, and the supervisor feedback gathered for
// each criterion. Severe disagreements are highlighted for terminal
// readers; set color.NoColor to strip the highlighting.
package report
