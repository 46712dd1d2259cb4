/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package panel

import (
	"chainguard.dev/summeval/judge/promptbuilder"
)

// peerSystemPrompt frames a panel agent's critique role around the
// deliberation's original system prompt.
var peerSystemPrompt = promptbuilder.MustNewPrompt(`Following you will work on this task:

{{assignment}}

You will be given an initial draft and you should challenge it and possibly improve it.`)

// peerUserPrompt hands an agent the task and the moderator's headstart
// draft to challenge.
var peerUserPrompt = promptbuilder.MustNewPrompt(`This is your task:

{{task}}

You are given a headstart:

{{draft}}

Consider it but generate your own improved version. Challenge the headstart draft if necessary. First write out what you think should be improved, then provide a new draft.`)

// consolidateSystemPrompt frames the moderator's final pass.
var consolidateSystemPrompt = promptbuilder.MustNewPrompt(`Task:

{{assignment}}

Now consolidate the feedback from the other agents and produce a final draft.`)

// consolidateUserPrompt gives the moderator the original draft plus
// every agent revision.
var consolidateUserPrompt = promptbuilder.MustNewPrompt(`This is your task:

{{task}}

Consider the original draft and the agent revisions below, then produce a final, consolidated version of the draft.

{{draft}}

{{revisions}}`)

// scoringSystemPrompt is the fixed persona agents score under in the
// conclusion task.
const scoringSystemPrompt = `You are an expert in summarizing meetings and are tasked with evaluating the quality of the summary. Score the summary with a likert scale between 1 (worst) and 10 (best).`

// concludeSystemPrompt extends the deliberation's system prompt for
// the moderator's final conclusion.
var concludeSystemPrompt = promptbuilder.MustNewPrompt(`{{assignment}}

Now that the agents have provided scores, please finalize the conclusion.`)

// concludeUserPrompt appends the agents' protocol to the original task.
var concludeUserPrompt = promptbuilder.MustNewPrompt(`{{task}}

Agents' feedback:

{{feedback}}`)
