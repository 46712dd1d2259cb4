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

// conclude has every agent score independently under the fixed scoring
// persona, then the moderator finalizes a conclusion from the
// collected protocol.
func (p *Panel) conclude(ctx context.Context, system, user string) (Answer, []Entry, error) {
	log := clog.FromContext(ctx)
	protocol := []Entry{}

	for round := 1; round <= p.rounds; round++ {
		for i := range p.agents {
			agent := &p.agents[i]
			output, err := p.process(ctx, agent, p.invokers[i], invoker.Conversation{System: scoringSystemPrompt, User: user})
			if err != nil {
				log.With("agent", agent.ID).Warnf("Panel agent failed, continuing without its score: %v", err)
				continue
			}
			protocol = append(protocol, Entry{
				Stage:  fmt.Sprintf("Scoring Round %d", round),
				Agent:  fmt.Sprintf("Agent %d", agent.ID),
				Output: result.Parse(output),
			})
		}
	}

	moderator := p.ensureModerator()
	finalSystem, err := buildConcludeSystem(system)
	if err != nil {
		return Answer{}, protocol, err
	}
	finalUser, err := buildConcludeUser(user, protocol)
	if err != nil {
		return Answer{}, protocol, err
	}

	raw, err := p.process(ctx, moderator, p.moderator, invoker.Conversation{System: finalSystem, User: finalUser})
	if err != nil {
		return Answer{}, protocol, fmt.Errorf("moderator conclusion: %w", err)
	}
	value := result.Parse(raw)
	protocol = append(protocol, Entry{Stage: "Final Conclusion", Agent: "Moderator", Output: value})
	return Answer{Raw: raw, Value: value}, protocol, nil
}

func buildConcludeSystem(system string) (string, error) {
	prompt, err := concludeSystemPrompt.BindXML("assignment", struct {
		XMLName struct{} `xml:"assignment"`
		Content string   `xml:",chardata"`
	}{Content: system})
	if err != nil {
		return "", fmt.Errorf("binding conclusion system prompt: %w", err)
	}
	return prompt.Build()
}

func buildConcludeUser(user string, protocol []Entry) (string, error) {
	prompt, err := concludeUserPrompt.BindXML("task", struct {
		XMLName struct{} `xml:"task"`
		Content string   `xml:",chardata"`
	}{Content: user})
	if err != nil {
		return "", fmt.Errorf("binding conclusion user prompt: %w", err)
	}
	if prompt, err = prompt.BindJSON("feedback", protocol); err != nil {
		return "", fmt.Errorf("binding conclusion user prompt: %w", err)
	}
	return prompt.Build()
}
