/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package panel

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/summeval/judge/invoker"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Task selects a deliberation protocol.
type Task string

const (
	// TaskBrainstorming drafts, challenges, and consolidates an answer:
	// the moderator writes an initial draft, every agent critiques it,
	// and the moderator merges the critiques into a final draft.
	TaskBrainstorming Task = "brainstorming"

	// TaskConclusion has every agent score independently and the
	// moderator finalize a conclusion from the collected scores.
	TaskConclusion Task = "conclusion"
)

const defaultSize = 3

// Agent is one deliberation participant. Memory accumulates every
// output the agent produces; it is retained for inspection but never
// replayed into later prompts.
type Agent struct {
	ID             int
	Model          string
	Memory         []string
	CurrentThought string
}

func (a *Agent) observe(output string) {
	a.Memory = append(a.Memory, output)
	a.CurrentThought = output
}

// Entry is one protocol log row: which stage produced an output and
// which participant spoke. Output holds decoded JSON where the stage
// parses, raw text otherwise.
type Entry struct {
	Stage  string `json:"stage"`
	Agent  string `json:"agent"`
	Output any    `json:"output"`
}

// Answer is a deliberation's final result. Raw is the moderator's
// verbatim response; Value is its decoded JSON when it parses, or Raw
// unchanged when it does not.
type Answer struct {
	Raw   string
	Value any
}

// Panel runs multi-agent deliberations. Agents are assigned models
// from the roster round-robin, so a one-entry roster replicates a
// single model across the panel and a longer roster spreads agents
// over model families. The first roster entry moderates.
type Panel struct {
	agents    []Agent
	invokers  []invoker.Interface
	moderator invoker.Interface
	modAgent  *Agent
	rounds    int
}

// Option configures a Panel.
type Option func(*Panel) error

// WithSize sets the number of agents, default 3.
func WithSize(n int) Option {
	return func(p *Panel) error {
		if n <= 0 {
			return fmt.Errorf("panel size must be positive, got %d", n)
		}
		p.agents = make([]Agent, n)
		return nil
	}
}

// WithRounds sets how many critique/scoring rounds run, default 1.
func WithRounds(n int) Option {
	return func(p *Panel) error {
		if n <= 0 {
			return fmt.Errorf("panel rounds must be positive, got %d", n)
		}
		p.rounds = n
		return nil
	}
}

// New builds a panel over the given invoker roster.
func New(roster []invoker.Interface, opts ...Option) (*Panel, error) {
	if len(roster) == 0 {
		return nil, errors.New("panel requires at least one invoker")
	}
	p := &Panel{
		agents:    make([]Agent, defaultSize),
		moderator: roster[0],
		rounds:    1,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.invokers = make([]invoker.Interface, len(p.agents))
	for i := range p.agents {
		inv := roster[i%len(roster)]
		p.invokers[i] = inv
		p.agents[i] = Agent{ID: i, Model: inv.Model()}
	}
	return p, nil
}

// Agents returns a snapshot of the panel's agent records, including
// accumulated memory.
func (p *Panel) Agents() []Agent {
	out := make([]Agent, len(p.agents))
	copy(out, p.agents)
	return out
}

// Ask runs one deliberation. An unknown task is a no-op returning an
// empty answer and empty protocol, not an error, so callers can treat
// task names as data.
func (p *Panel) Ask(ctx context.Context, task Task, system, user string) (Answer, []Entry, error) {
	session := uuid.NewString()
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("session", session, "task", string(task)))

	tr := otel.Tracer("chainguard.ai.summeval.panel",
		oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(ctx, "panel.deliberation", oteltrace.WithAttributes(
		attribute.String("panel.task", string(task)),
		attribute.String("panel.session", session),
		attribute.Int("panel.agents", len(p.agents)),
		attribute.Int("panel.rounds", p.rounds),
	))
	defer span.End()

	switch task {
	case TaskBrainstorming:
		answer, protocol, err := p.brainstorm(ctx, system, user)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		return answer, protocol, err
	case TaskConclusion:
		answer, protocol, err := p.conclude(ctx, system, user)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		return answer, protocol, err
	default:
		clog.FromContext(ctx).Warnf("Unknown panel task %q", task)
		return Answer{}, []Entry{}, nil
	}
}

// process runs a single participant's model call and records the
// output in the participant's memory.
func (p *Panel) process(ctx context.Context, agent *Agent, inv invoker.Interface, conv invoker.Conversation) (string, error) {
	tr := otel.Tracer("chainguard.ai.summeval.panel",
		oteltrace.WithInstrumentationVersion("1.0.0"))
	_, span := tr.Start(ctx, "panel.agent", oteltrace.WithAttributes(
		attribute.Int("agent.id", agent.ID),
		attribute.String("agent.model", agent.Model),
	))
	defer span.End()

	output, err := inv.Invoke(ctx, conv)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	agent.observe(output)
	return output, nil
}

// ensureModerator returns the panel's moderator agent record, creating
// it on first use. A brainstorming moderator is reused by a later
// conclusion on the same panel so its memory spans both tasks.
func (p *Panel) ensureModerator() *Agent {
	if p.modAgent == nil {
		p.modAgent = &Agent{ID: 0, Model: p.moderator.Model()}
	}
	return p.modAgent
}
