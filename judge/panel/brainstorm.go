/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package panel

import (
	"context"
	"fmt"

	"chainguard.dev/summeval/judge/invoker"
	"chainguard.dev/summeval/judge/result"
	"github.com/chainguard-dev/clog"
)

// brainstorm runs the draft / challenge / consolidate protocol. The
// moderator drafts first, every agent critiques the draft each round,
// and the moderator merges the critiques. A failed agent costs its
// critique, not the deliberation; a failed moderator call ends it.
func (p *Panel) brainstorm(ctx context.Context, system, user string) (Answer, []Entry, error) {
	log := clog.FromContext(ctx)
	protocol := []Entry{}
	moderator := p.ensureModerator()

	draft, err := p.process(ctx, moderator, p.moderator, invoker.Conversation{System: system, User: user})
	if err != nil {
		return Answer{}, protocol, fmt.Errorf("moderator initial draft: %w", err)
	}
	protocol = append(protocol, Entry{Stage: "Initial Draft", Agent: "Moderator", Output: draft})

	peerSystem, err := buildPeerSystem(system)
	if err != nil {
		return Answer{}, protocol, err
	}
	peerUser, err := buildPeerUser(user, draft)
	if err != nil {
		return Answer{}, protocol, err
	}

	var feedback []string
	for round := 1; round <= p.rounds; round++ {
		for i := range p.agents {
			agent := &p.agents[i]
			output, err := p.process(ctx, agent, p.invokers[i], invoker.Conversation{System: peerSystem, User: peerUser})
			if err != nil {
				log.With("agent", agent.ID).Warnf("Panel agent failed, continuing without its critique: %v", err)
				continue
			}
			feedback = append(feedback, output)
			protocol = append(protocol, Entry{
				Stage:  fmt.Sprintf("Agent Round %d, Agent %d", round, agent.ID),
				Agent:  fmt.Sprintf("Agent %d", agent.ID),
				Output: output,
			})
		}
	}

	finalSystem, err := buildConsolidateSystem(system)
	if err != nil {
		return Answer{}, protocol, err
	}
	finalUser, err := buildConsolidateUser(user, draft, feedback)
	if err != nil {
		return Answer{}, protocol, err
	}

	raw, err := p.process(ctx, moderator, p.moderator, invoker.Conversation{System: finalSystem, User: finalUser})
	if err != nil {
		return Answer{}, protocol, fmt.Errorf("moderator consolidation: %w", err)
	}
	value := result.Parse(raw)
	protocol = append(protocol, Entry{Stage: "Final Consolidation", Agent: "Moderator", Output: value})
	return Answer{Raw: raw, Value: value}, protocol, nil
}

func buildPeerSystem(system string) (string, error) {
	prompt, err := peerSystemPrompt.BindXML("assignment", struct {
		XMLName struct{} `xml:"assignment"`
		Content string   `xml:",chardata"`
	}{Content: system})
	if err != nil {
		return "", fmt.Errorf("binding peer system prompt: %w", err)
	}
	return prompt.Build()
}

func buildPeerUser(user, draft string) (string, error) {
	prompt, err := peerUserPrompt.BindXML("task", struct {
		XMLName struct{} `xml:"task"`
		Content string   `xml:",chardata"`
	}{Content: user})
	if err != nil {
		return "", fmt.Errorf("binding peer user prompt: %w", err)
	}
	if prompt, err = prompt.BindXML("draft", struct {
		XMLName struct{} `xml:"draft"`
		Content string   `xml:",chardata"`
	}{Content: draft}); err != nil {
		return "", fmt.Errorf("binding peer user prompt: %w", err)
	}
	return prompt.Build()
}

func buildConsolidateSystem(system string) (string, error) {
	prompt, err := consolidateSystemPrompt.BindXML("assignment", struct {
		XMLName struct{} `xml:"assignment"`
		Content string   `xml:",chardata"`
	}{Content: system})
	if err != nil {
		return "", fmt.Errorf("binding consolidation system prompt: %w", err)
	}
	return prompt.Build()
}

func buildConsolidateUser(user, draft string, revisions []string) (string, error) {
	prompt, err := consolidateUserPrompt.BindXML("task", struct {
		XMLName struct{} `xml:"task"`
		Content string   `xml:",chardata"`
	}{Content: user})
	if err != nil {
		return "", fmt.Errorf("binding consolidation user prompt: %w", err)
	}
	if prompt, err = prompt.BindXML("draft", struct {
		XMLName struct{} `xml:"draft"`
		Content string   `xml:",chardata"`
	}{Content: draft}); err != nil {
		return "", fmt.Errorf("binding consolidation user prompt: %w", err)
	}
	if prompt, err = prompt.BindJSON("revisions", revisions); err != nil {
		return "", fmt.Errorf("binding consolidation user prompt: %w", err)
	}
	return prompt.Build()
}
