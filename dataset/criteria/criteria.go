/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criteria

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/xeipuuv/gojsonschema"
)

// definitionSchema is what every criterion file must satisfy. The
// definition text is the only field the judge consumes; extra fields
// (authorship notes, examples) are allowed and ignored.
var definitionSchema = map[string]any{
	"type":     "object",
	"required": []string{"definition"},
	"properties": map[string]any{
		"definition": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
	},
}

// Criterion is a named error type with its prose definition, e.g.
// "omission": "Information from the transcript is missing ...".
type Criterion struct {
	Name       string
	Definition string
}

// Set holds the loaded criterion definitions. It is immutable after
// Load and iterates in sorted name order so runs are reproducible.
type Set struct {
	definitions map[string]string
	names       []string
}

// Load reads every *.json file in dir as a criterion definition. The
// criterion name is the file's base name up to the first dot, and the
// definition is the file's "definition" field. Files that are not
// valid definitions fail the load: criteria are operator configuration
// and a bad one means the whole run would judge the wrong thing.
func Load(ctx context.Context, dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading criteria directory %q: %w", dir, err)
	}

	set := &Set{definitions: map[string]string{}}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading criterion file %q: %w", path, err)
		}
		if err := validate(raw); err != nil {
			return nil, fmt.Errorf("criterion file %q: %w", path, err)
		}
		var doc struct {
			Definition string `json:"definition"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decoding criterion file %q: %w", path, err)
		}
		name, _, _ := strings.Cut(entry.Name(), ".")
		set.definitions[name] = doc.Definition
		set.names = append(set.names, name)
	}
	if len(set.names) == 0 {
		return nil, fmt.Errorf("no criterion definitions found in %q", dir)
	}
	sort.Strings(set.names)

	clog.FromContext(ctx).With("dir", dir).Infof("Loaded %d criteria: %v", len(set.names), set.names)
	return set, nil
}

// validate checks a raw criterion document against definitionSchema.
func validate(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(definitionSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validating criterion: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("invalid criterion: %s", strings.Join(errs, ", "))
}

// Names returns the criterion names in sorted order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Definition returns the definition text for name.
func (s *Set) Definition(name string) (string, bool) {
	def, ok := s.definitions[name]
	return def, ok
}

// Len returns the number of loaded criteria.
func (s *Set) Len() int { return len(s.names) }

// All returns the criteria in sorted name order.
func (s *Set) All() []Criterion {
	out := make([]Criterion, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, Criterion{Name: name, Definition: s.definitions[name]})
	}
	return out
}
