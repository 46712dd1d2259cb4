/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Helpers that panic on error, for package-level template variables that
// are known to be valid when the package compiles.

// Must wraps a call returning (*Prompt, error) and panics if the error is
// non-nil. Intended for variable initializations such as:
//
//	var p = promptbuilder.Must(promptbuilder.NewPrompt(`Hello {{name}}`))
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt creates a new prompt from a template literal and panics on error.
func MustNewPrompt(template stringLiteral) *Prompt {
	return Must(NewPrompt(template))
}

// MustBindStringLiteral binds a literal string to a placeholder and panics on error.
// Runtime data goes through BindStringLiteral, whose error survives to the caller.
func (p *Prompt) MustBindStringLiteral(name string, value stringLiteral) *Prompt {
	return Must(p.BindStringLiteral(name, value))
}
