/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// resolveFunc is a callback that provides a replacement for a binding name.
type resolveFunc func(name string) (string, error)

// walkTemplate tokenizes the template and calls resolve for each binding.
// Literal braces outside {{name}} placeholders pass through untouched, so
// JSON response-format examples can live directly in templates.
func walkTemplate(template string, resolve resolveFunc) (string, error) {
	var result strings.Builder

	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start == -1 {
			result.WriteString(template)
			break
		}

		result.WriteString(template[:start])

		end := strings.Index(template[start:], "}}")
		if end == -1 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		end += start + 2

		bindingText := template[start:end]
		bindingName := strings.TrimSpace(bindingText[2 : len(bindingText)-2])

		if !isValidIdentifier(bindingName) {
			return "", fmt.Errorf("invalid binding identifier %q", bindingName)
		}
		replacement, err := resolve(bindingName)
		if err != nil {
			return "", err
		}
		result.WriteString(replacement)

		template = template[end:]
	}

	return result.String(), nil
}

// isValidIdentifier reports whether s is a valid binding identifier:
// a letter followed by letters, digits, or underscores.
func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	runes := []rune(s)
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
