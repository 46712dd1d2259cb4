/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package fitting

import (
	"fmt"

	"chainguard.dev/summeval/judge/promptbuilder"
	"chainguard.dev/summeval/judge/schema"
)

const (
	reasoningSystemPrompt = `You are a judge tasked with comparing a candidate reasoning to a human reasoning. You may find differences acceptable unless they are major or inaccurate. Return a chain-of-thought and a single-value quality score (0 to 100).`

	reportSystemPrompt = `You are a supervisor providing feedback to a junior evaluator on how to improve. You will be given comparisons of metric vs. human evaluations.`
)

// criterionFeedback is the response format of the per-criterion report.
type criterionFeedback struct {
	ScoreSimilarity  string `json:"score_similarity" jsonschema_description:"Feedback on how closely the ratings track the human ratings"`
	ReasoningQuality string `json:"reasoning_quality" jsonschema_description:"Feedback on the quality of the written reasoning"`
}

var feedbackSchema = schema.ReflectType[criterionFeedback]()

var reasoningUserPrompt = promptbuilder.MustNewPrompt(`Candidate reasoning:

{{candidate}}

Human reasoning:

{{human}}

Please provide your chain-of-thought and a single integer rating from 0 to 100.`)

var reportUserPrompt = promptbuilder.MustNewPrompt(`All comparisons:

{{comparisons}}

Now provide meta-level feedback on how to improve scoring and reasoning. Return strictly valid JSON matching this schema:

{{format}}`)

// XML wrappers delimiting the two reasonings under comparison.

func xmlCandidate(text string) any {
	return struct {
		XMLName struct{} `xml:"candidate_reasoning"`
		Content string   `xml:",chardata"`
	}{Content: text}
}

func xmlHuman(text string) any {
	return struct {
		XMLName struct{} `xml:"human_reasoning"`
		Content string   `xml:",chardata"`
	}{Content: text}
}

func buildReasoningUser(candidate, human string) (string, error) {
	prompt, err := reasoningUserPrompt.BindXML("candidate", xmlCandidate(candidate))
	if err == nil {
		prompt, err = prompt.BindXML("human", xmlHuman(human))
	}
	if err != nil {
		return "", fmt.Errorf("binding reasoning comparison prompt: %w", err)
	}
	return prompt.Build()
}

func buildReportUser(comparisons []Comparison) (string, error) {
	prompt, err := reportUserPrompt.BindJSON("comparisons", comparisons)
	if err == nil {
		prompt, err = prompt.BindJSON("format", feedbackSchema)
	}
	if err != nil {
		return "", fmt.Errorf("binding quality report prompt: %w", err)
	}
	return prompt.Build()
}
