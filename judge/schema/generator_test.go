/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"chainguard.dev/summeval/judge/schema"
)

func TestReflect(t *testing.T) {
	type score struct {
		Reasoning  string `json:"reasoning" jsonschema:"description=Why the rating was chosen,required"`
		Confidence int    `json:"confidence" jsonschema:"description=Certainty from 0 to 10,required"`
		Rating     int    `json:"rating" jsonschema:"description=Error impact from 0 to 5,required"`
	}

	s := schema.Reflect(&score{})
	if s == nil {
		t.Fatal("expected schema")
	}
	if s.Type != "object" {
		t.Fatalf("expected object type, got %s", s.Type)
	}
	if len(s.Required) != 3 {
		t.Fatalf("unexpected required: %#v", s.Required)
	}

	reasoning, ok := s.Properties.Get("reasoning")
	if !ok {
		t.Fatal("missing reasoning property")
	}
	if reasoning.Description != "Why the rating was chosen" {
		t.Fatalf("unexpected description: %q", reasoning.Description)
	}
}

// Schemas end up inside prompt text, so their JSON form has to be
// self-contained: no $ref, no $defs.
func TestReflectInlinesEverything(t *testing.T) {
	type finding struct {
		Instance string `json:"instance" jsonschema:"description=The problem found"`
	}
	type report struct {
		Findings []finding `json:"findings"`
	}

	raw, err := json.Marshal(schema.Reflect(&report{}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, forbidden := range []string{`"$ref"`, `"$defs"`} {
		if strings.Contains(string(raw), forbidden) {
			t.Errorf("schema contains %s: %s", forbidden, raw)
		}
	}
	if !strings.Contains(string(raw), `"The problem found"`) {
		t.Errorf("nested description missing: %s", raw)
	}
}

func TestReflectType(t *testing.T) {
	type verdict struct {
		Rating int `json:"rating"`
	}

	s := schema.ReflectType[verdict]()
	if s == nil {
		t.Fatal("expected schema")
	}
	if _, ok := s.Properties.Get("rating"); !ok {
		t.Fatal("missing rating property")
	}
}
