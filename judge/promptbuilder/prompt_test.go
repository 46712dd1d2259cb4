/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"strings"
	"testing"
)

func TestNewPrompt(t *testing.T) {
	tests := []struct {
		name         string
		template     stringLiteral
		wantErr      bool
		placeholders []string
	}{{
		name:         "single placeholder",
		template:     `Evaluate {{summary}} carefully.`,
		placeholders: []string{"summary"},
	}, {
		name:         "repeated placeholder counted once",
		template:     `{{name}} and again {{name}}`,
		placeholders: []string{"name"},
	}, {
		name:         "no placeholders",
		template:     `Static instructions only.`,
		placeholders: nil,
	}, {
		name:         "whitespace in placeholder",
		template:     `{{ criterion }}`,
		placeholders: []string{"criterion"},
	}, {
		name:         "json example braces pass through",
		template:     `Respond with {"rating": 0} and fill in {{rating}}.`,
		placeholders: []string{"rating"},
	}, {
		name:     "unclosed binding",
		template: `broken {{name`,
		wantErr:  true,
	}, {
		name:     "invalid identifier",
		template: `{{9lives}}`,
		wantErr:  true,
	}, {
		name:     "empty identifier",
		template: `{{}}`,
		wantErr:  true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPrompt(tt.template)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPrompt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			got := p.Placeholders()
			if len(got) != len(tt.placeholders) {
				t.Fatalf("Placeholders() = %v, want %v", got, tt.placeholders)
			}
			for _, name := range tt.placeholders {
				if _, ok := got[name]; !ok {
					t.Errorf("missing placeholder %q", name)
				}
			}
		})
	}
}

func TestBindAndBuild(t *testing.T) {
	p := MustNewPrompt(`{{instructions}}

{{material}}`)

	bound, err := p.BindStringLiteral("instructions", `Judge the summary.`)
	if err != nil {
		t.Fatalf("BindStringLiteral: %v", err)
	}

	type material struct {
		XMLName struct{} `xml:"material"`
		Content string   `xml:",chardata"`
	}
	bound, err = bound.BindXML("material", material{Content: "the summary text"})
	if err != nil {
		t.Fatalf("BindXML: %v", err)
	}

	out, err := bound.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(out, "Judge the summary.") {
		t.Errorf("missing literal binding in output: %q", out)
	}
	if !strings.Contains(out, "<material>the summary text</material>") {
		t.Errorf("missing XML binding in output: %q", out)
	}
}

func TestBindErrors(t *testing.T) {
	p := MustNewPrompt(`{{a}}`)

	t.Run("unknown placeholder", func(t *testing.T) {
		if _, err := p.BindStringLiteral("b", `x`); err == nil {
			t.Error("expected error binding unknown placeholder")
		}
	})

	t.Run("double bind", func(t *testing.T) {
		bound, err := p.BindStringLiteral("a", `x`)
		if err != nil {
			t.Fatalf("first bind: %v", err)
		}
		if _, err := bound.BindStringLiteral("a", `y`); err == nil {
			t.Error("expected error on second bind of same placeholder")
		}
	})

	t.Run("build with unbound placeholder", func(t *testing.T) {
		if _, err := p.Build(); err == nil {
			t.Error("expected error building with unbound placeholder")
		}
		if _, err := p.Build(); err != nil && !strings.Contains(err.Error(), "unbound placeholder: a") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestBindImmutability(t *testing.T) {
	base := MustNewPrompt(`value: {{v}}`)

	first := base.MustBindStringLiteral("v", `one`)
	second := base.MustBindStringLiteral("v", `two`)

	out1, err := first.Build()
	if err != nil {
		t.Fatalf("Build first: %v", err)
	}
	out2, err := second.Build()
	if err != nil {
		t.Fatalf("Build second: %v", err)
	}

	if out1 != "value: one" {
		t.Errorf("first = %q", out1)
	}
	if out2 != "value: two" {
		t.Errorf("second = %q", out2)
	}
	// The base remains unbound.
	if _, err := base.Build(); err == nil {
		t.Error("base prompt should still be unbound")
	}
}

func TestBindJSON(t *testing.T) {
	p := MustNewPrompt(`candidates: {{instances}}`)

	bound, err := p.BindJSON("instances", []map[string]string{{"instance": "missed deadline"}})
	if err != nil {
		t.Fatalf("BindJSON: %v", err)
	}
	out, err := bound.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(out, `"instance": "missed deadline"`) {
		t.Errorf("missing JSON payload: %q", out)
	}
}

func TestBindYAML(t *testing.T) {
	p := MustNewPrompt(`example: {{example}}`)

	bound, err := p.BindYAML("example", map[string]any{"likert_score": 3})
	if err != nil {
		t.Fatalf("BindYAML: %v", err)
	}
	out, err := bound.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(out, "likert_score: 3") {
		t.Errorf("missing YAML payload: %q", out)
	}
}

func TestBindRepeatedPlaceholder(t *testing.T) {
	p := MustNewPrompt(`{{name}} == {{name}}`)

	out, err := p.MustBindStringLiteral("name", `x`).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out != "x == x" {
		t.Errorf("Build() = %q, want %q", out, "x == x")
	}
}

func TestMustPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic from Must on invalid template")
		}
	}()
	MustNewPrompt(`{{`)
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"a", "name", "criterion_name", "Step2"}
	invalid := []string{"", "2step", "with-dash", "with space", "_lead"}

	for _, s := range valid {
		if !isValidIdentifier(s) {
			t.Errorf("isValidIdentifier(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if isValidIdentifier(s) {
			t.Errorf("isValidIdentifier(%q) = true, want false", s)
		}
	}
}
