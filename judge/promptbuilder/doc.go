/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder assembles judge prompts from templates with typed,
delimited placeholder bindings.

Templates are string literals containing {{name}} placeholders:

	var scorePrompt = promptbuilder.MustNewPrompt(`
	You are evaluating a meeting summary against one criterion.

	{{criterion}}

	{{material}}

	Respond with JSON of the form {"reasoning": "...", "confidence": 0-10, "rating": 0-5}.`)

Placeholders are bound one of four ways:

  - BindStringLiteral for developer-supplied instruction fragments. The
    argument type only accepts untyped string constants, so runtime data
    cannot take this path.
  - BindXML, BindJSON and BindYAML for runtime data (transcripts,
    summaries, prior step output). Marshaling delimits the data, which
    keeps a summary that happens to contain "{{" or prompt-like prose
    from being interpreted as part of the template.

Prompts are immutable. Each Bind* returns a new Prompt, so package-level
templates are shared safely across goroutines and a half-bound prompt can
be reused with different completions:

	base := scorePrompt.MustBindStringLiteral("criterion", `Omission of key facts.`)
	one, err := base.BindXML("material", firstSample)
	two, err := base.BindXML("material", secondSample)

Build renders the final string and fails if any placeholder is unbound,
so a prompt with a forgotten binding never reaches a model.

Literal braces outside placeholders pass through untouched; JSON
response-format examples can be written directly in templates.
*/
package promptbuilder
