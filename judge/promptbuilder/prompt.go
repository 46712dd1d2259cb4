/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// stringLiteral is a private type that only accepts literal strings.
// Runtime data (transcripts, summaries, model output) cannot reach a
// literal binding; it has to go through one of the marshaling binders,
// which delimit it.
type stringLiteral string

// Prompt represents a template with bindable placeholders.
// Prompts are immutable: every Bind* call returns a new Prompt, so a
// package-level template can be shared and bound concurrently.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt creates a new prompt from a template literal and parses its
// {{name}} placeholders.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)

	// Walking with an identity resolver both validates the template and
	// collects the placeholder names.
	tmpl, err := walkTemplate(string(template), func(name string) (string, error) {
		if _, exists := bindings[name]; !exists {
			bindings[name] = &unboundBinding{name: name}
		}
		return fmt.Sprintf("{{%s}}", name), nil
	})
	if err != nil {
		return nil, err
	}

	return &Prompt{
		template: tmpl,
		bindings: bindings,
	}, nil
}

// Placeholders returns the names of all placeholders found in the template.
func (p *Prompt) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// BindStringLiteral binds a literal string to a placeholder.
// The value comes from the developer, not from runtime input.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, &literalBinding{val: string(value)})
}

// BindXML binds structured data to a placeholder by marshaling it as XML.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.bind(name, &xmlBinding{data: data})
}

// BindJSON binds structured data to a placeholder by marshaling it as JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, &jsonBinding{data: data})
}

// BindYAML binds structured data to a placeholder by marshaling it as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, &yamlBinding{data: data})
}

// bind applies a binding to an unbound placeholder, returning a new Prompt.
func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	existing, exists := p.bindings[name]
	if !exists {
		return nil, fmt.Errorf("binding %q not found in template", name)
	}
	if _, isUnbound := existing.(*unboundBinding); !isUnbound {
		return nil, fmt.Errorf("binding %q already bound", name)
	}
	next := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
	}
	next.bindings[name] = b
	return next, nil
}

// Build constructs the final prompt, returning an error if any placeholder
// is still unbound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, binding := range p.bindings {
		val, err := binding.value()
		if err != nil {
			return "", err
		}
		values[name] = val
	}

	return walkTemplate(p.template, func(name string) (string, error) {
		if val, exists := values[name]; exists {
			return val, nil
		}
		// Unreachable: NewPrompt and Build tokenize identically.
		return "", fmt.Errorf("internal error: binding %q not found in values map", name)
	})
}

// binding represents a value that will be substituted into the template.
type binding interface {
	value() (string, error)
}

// unboundBinding is the default state for placeholders that haven't been set.
type unboundBinding struct {
	name string
}

func (u *unboundBinding) value() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", u.name)
}

type literalBinding struct {
	val string
}

func (l *literalBinding) value() (string, error) {
	return l.val, nil
}

type xmlBinding struct {
	data any
}

func (x *xmlBinding) value() (string, error) {
	bytes, err := xml.MarshalIndent(x.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML: %w", err)
	}
	return string(bytes), nil
}

type jsonBinding struct {
	data any
}

func (j *jsonBinding) value() (string, error) {
	bytes, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(bytes), nil
}

type yamlBinding struct {
	data any
}

func (y *yamlBinding) value() (string, error) {
	bytes, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(bytes), nil
}
