/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline implements the judgment strategies that score a
// meeting summary against a criteria catalog.
//
// Three strategies share one contract: given a transcript/summary pair,
// return an assessment for every loaded criterion. AllAtOnce asks for
// the whole catalog in a single call, OneByOne issues one call per
// criterion, and ThreeStep walks each criterion through a collect /
// filter / rate sequence whose steps can be executed by a single model
// or delegated to a deliberation panel via StepExecutor.
//
// Strategies degrade instead of failing: a model call that errors out
// or returns garbage costs that criterion its score (zeroed, counted in
// metrics) but never the evaluation. The three-step strategy
// additionally folds its ratings into a single quality score on [1,10]
// using certainty-weighted criterion importances.
package pipeline
