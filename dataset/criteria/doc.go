/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package criteria loads the error-type definitions a judge evaluates
// summaries against.
//
// A criteria directory holds one JSON file per criterion:
//
//	criteria/
//	  omission.json        {"definition": "Information from the transcript ..."}
//	  hallucination.json   {"definition": "The summary contains content ..."}
//
// The file name (up to the first dot) is the criterion name the rest of
// the system keys on. Every file is schema-validated at load time so a
// malformed definition stops the run before any model is invoked.
package criteria
