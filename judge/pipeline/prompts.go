/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"fmt"

	"chainguard.dev/summeval/dataset/criteria"
	"chainguard.dev/summeval/dataset/incontext"
	"chainguard.dev/summeval/judge/promptbuilder"
	"chainguard.dev/summeval/judge/schema"
)

// System personas. Optional calibration material is appended to these
// at run time; everything else about them is fixed.
const (
	oneByOneSystemPrompt = `You are an expert in evaluating meeting summaries for specific types of errors. You will be given the transcript and summary, plus one criterion definition. Output strictly in JSON with keys: reasoning, confidence, rating.`

	allAtOnceSystemPrompt = `You are an expert in meeting summarization quality assessment. You will see multiple criteria definitions and evaluate them in one shot.`

	judgeSystemPrompt = `You are a Judge tasked to decide if a given summary has specific errors. You will follow a multi-step process to identify and score these errors.`
)

// instanceFinding is one potential error reported by the collection step.
type instanceFinding struct {
	Instance  string `json:"instance" jsonschema_description:"The summary text span where the error could occur"`
	Reasoning string `json:"reasoning" jsonschema_description:"Why this could be an error"`
	Certainty int    `json:"certainty" jsonschema:"minimum=0,maximum=100" jsonschema_description:"Certainty that this is an error, 0-100"`
}

// filteredFinding is an instance after the filter step's verdict.
type filteredFinding struct {
	Instance    string `json:"instance"`
	Reasoning   string `json:"reasoning"`
	Certainty   int    `json:"certainty" jsonschema:"minimum=0,maximum=100"`
	ErrorExists bool   `json:"error_exists" jsonschema_description:"Whether the instance is actually an error"`
}

// Response-format schemas embedded in the prompts.
var (
	scoreSchema    = schema.ReflectType[Score]()
	instanceSchema = schema.ReflectType[instanceFinding]()
	filteredSchema = schema.ReflectType[filteredFinding]()
)

var oneByOneUserPrompt = promptbuilder.MustNewPrompt(`{{transcript}}

{{summary}}

{{criterion}}

Rate the summary from 0 to 5 (0 = best, 5 = worst). Also provide reasoning and a confidence from 0 to 10. Return strictly valid JSON matching this schema:

{{format}}`)

var allAtOnceUserPrompt = promptbuilder.MustNewPrompt(`{{transcript}}

{{summary}}

Criteria definitions:

{{definitions}}

Return a JSON object mapping each criterion name to an object matching this schema:

{{format}}

No extra text outside the JSON.`)

var collectUserPrompt = promptbuilder.MustNewPrompt(`Step 1: Collect potential error instances.

{{criterion}}

{{summary}}

{{transcript}}

List instances where this error could occur. Provide short reasoning and a certainty score (0-100). Return strictly valid JSON: an array of objects matching this schema:

{{format}}`)

var filterUserPrompt = promptbuilder.MustNewPrompt(`Step 2: Filter actual errors.

{{criterion}}

Potential instances:

{{instances}}

Decide if each instance is actually an error or not. Return strictly valid JSON: an array of objects matching this schema:

{{format}}`)

var rateUserPrompt = promptbuilder.MustNewPrompt(`Step 3: Rate the summary considering the filtered error instances.

{{criterion}}

{{summary}}

{{transcript}}

Error instances:

{{instances}}

Rate how badly these errors affect the summary on a scale 0-5 (0 = no impact, 5 = severe). Also provide a short reasoning and a confidence score (0-10). Return strictly valid JSON matching this schema:

{{format}}`)

// exampleSuffixPrompt carries one prior judgment into a system prompt.
var exampleSuffixPrompt = promptbuilder.MustNewPrompt(`

A prior judgment for this criterion, for calibration:

{{example}}`)

// examplesSuffixPrompt carries the full example set into a system prompt.
var examplesSuffixPrompt = promptbuilder.MustNewPrompt(`

Prior judgments per criterion, for calibration:

{{examples}}`)

// suggestionSuffixPrompt carries fitting feedback into the rating step.
var suggestionSuffixPrompt = promptbuilder.MustNewPrompt(`

In-context examples:

{{feedback}}`)

// XML wrappers delimiting runtime content inside prompts.

func xmlTranscript(text string) any {
	return struct {
		XMLName struct{} `xml:"transcript"`
		Content string   `xml:",chardata"`
	}{Content: text}
}

func xmlSummary(text string) any {
	return struct {
		XMLName struct{} `xml:"summary"`
		Content string   `xml:",chardata"`
	}{Content: text}
}

func xmlCriterion(name, definition string) any {
	return struct {
		XMLName struct{} `xml:"criterion"`
		Name    string   `xml:"name,attr"`
		Content string   `xml:",chardata"`
	}{Name: name, Content: definition}
}

func xmlFeedback(text string) any {
	return struct {
		XMLName struct{} `xml:"feedback"`
		Content string   `xml:",chardata"`
	}{Content: text}
}

// exampleYAML shapes an in-context example for prompt embedding.
type exampleYAML struct {
	LikertScore int    `yaml:"likert_score"`
	Reasoning   string `yaml:"reasoning"`
}

func buildOneByOneUser(sample Sample, name, definition string) (string, error) {
	prompt, err := oneByOneUserPrompt.BindXML("transcript", xmlTranscript(sample.Transcript))
	if err == nil {
		prompt, err = prompt.BindXML("summary", xmlSummary(sample.Summary))
	}
	if err == nil {
		prompt, err = prompt.BindXML("criterion", xmlCriterion(name, definition))
	}
	if err == nil {
		prompt, err = prompt.BindJSON("format", scoreSchema)
	}
	if err != nil {
		return "", fmt.Errorf("binding criterion prompt: %w", err)
	}
	return prompt.Build()
}

func buildAllAtOnceUser(sample Sample, set *criteria.Set) (string, error) {
	definitions := map[string]string{}
	for _, criterion := range set.All() {
		definitions[criterion.Name] = criterion.Definition
	}
	prompt, err := allAtOnceUserPrompt.BindXML("transcript", xmlTranscript(sample.Transcript))
	if err == nil {
		prompt, err = prompt.BindXML("summary", xmlSummary(sample.Summary))
	}
	if err == nil {
		prompt, err = prompt.BindJSON("definitions", definitions)
	}
	if err == nil {
		prompt, err = prompt.BindJSON("format", scoreSchema)
	}
	if err != nil {
		return "", fmt.Errorf("binding combined prompt: %w", err)
	}
	return prompt.Build()
}

func buildCollectUser(sample Sample, name, definition string) (string, error) {
	prompt, err := collectUserPrompt.BindXML("criterion", xmlCriterion(name, definition))
	if err == nil {
		prompt, err = prompt.BindXML("summary", xmlSummary(sample.Summary))
	}
	if err == nil {
		prompt, err = prompt.BindXML("transcript", xmlTranscript(sample.Transcript))
	}
	if err == nil {
		prompt, err = prompt.BindJSON("format", instanceSchema)
	}
	if err != nil {
		return "", fmt.Errorf("binding collection prompt: %w", err)
	}
	return prompt.Build()
}

func buildFilterUser(name, definition string, instances any) (string, error) {
	prompt, err := filterUserPrompt.BindXML("criterion", xmlCriterion(name, definition))
	if err == nil {
		prompt, err = prompt.BindJSON("instances", instances)
	}
	if err == nil {
		prompt, err = prompt.BindJSON("format", filteredSchema)
	}
	if err != nil {
		return "", fmt.Errorf("binding filter prompt: %w", err)
	}
	return prompt.Build()
}

func buildRateUser(sample Sample, name, definition string, instances any) (string, error) {
	prompt, err := rateUserPrompt.BindXML("criterion", xmlCriterion(name, definition))
	if err == nil {
		prompt, err = prompt.BindXML("summary", xmlSummary(sample.Summary))
	}
	if err == nil {
		prompt, err = prompt.BindXML("transcript", xmlTranscript(sample.Transcript))
	}
	if err == nil {
		prompt, err = prompt.BindJSON("instances", instances)
	}
	if err == nil {
		prompt, err = prompt.BindJSON("format", scoreSchema)
	}
	if err != nil {
		return "", fmt.Errorf("binding rating prompt: %w", err)
	}
	return prompt.Build()
}

func buildExampleSuffix(example incontext.Example) (string, error) {
	prompt, err := exampleSuffixPrompt.BindYAML("example", exampleYAML{
		LikertScore: example.LikertScore,
		Reasoning:   example.Reasoning,
	})
	if err != nil {
		return "", fmt.Errorf("binding example suffix: %w", err)
	}
	return prompt.Build()
}

func buildExamplesSuffix(examples map[string]incontext.Example) (string, error) {
	shaped := make(map[string]exampleYAML, len(examples))
	for name, example := range examples {
		shaped[name] = exampleYAML{LikertScore: example.LikertScore, Reasoning: example.Reasoning}
	}
	prompt, err := examplesSuffixPrompt.BindYAML("examples", shaped)
	if err != nil {
		return "", fmt.Errorf("binding examples suffix: %w", err)
	}
	return prompt.Build()
}

func buildSuggestionSuffix(suggestion string) (string, error) {
	prompt, err := suggestionSuffixPrompt.BindXML("feedback", xmlFeedback(suggestion))
	if err != nil {
		return "", fmt.Errorf("binding suggestion suffix: %w", err)
	}
	return prompt.Build()
}
