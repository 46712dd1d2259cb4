/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package panel runs multi-agent deliberations over a single prompt.
//
// A panel is several model-backed agents plus a moderator. The
// brainstorming task has the moderator draft an answer, every agent
// challenge it, and the moderator consolidate the critiques; the
// conclusion task has every agent score independently before the
// moderator finalizes. Each deliberation produces an ordered protocol
// log of every stage alongside the final answer, so a judgment can be
// audited after the fact.
//
//	roster, _ := metainvoker.Roster(ctx, cfg, "gpt-4o")
//	p, _ := panel.New(roster)
//	answer, protocol, err := p.Ask(ctx, panel.TaskBrainstorming, system, user)
package panel
