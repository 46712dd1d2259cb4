/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas from the response types the judge
// asks models to produce. The schemas are embedded in prompts as the
// authoritative statement of the expected output shape, so prompt text
// and parsing code cannot drift apart.
package schema

import "github.com/invopop/jsonschema"

// reflector is configured for prompt embedding: inlined output (no $ref
// indirection) because models follow a self-contained schema far more
// reliably than one with references, and open additionalProperties
// because the parser tolerates extra fields rather than forbidding them.
var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
}

// Reflect derives the JSON schema for the provided value.
func Reflect(v any) *jsonschema.Schema {
	return reflector.Reflect(v)
}

// ReflectType allocates a zero value of T and reflects it to a schema.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(&zero)
}
