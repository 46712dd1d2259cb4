/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractJSON extracts JSON content from a text response that may contain markdown code blocks.
// It looks for content between ```json and ``` markers, or returns the input trimmed if no markers are found.
func ExtractJSON(responseText string) string {
	// Search for the first instance of ```json on its own line and collect content until closing ```
	lines := strings.Split(responseText, "\n")
	var jsonBuffer bytes.Buffer
	inJSONBlock := false
	foundJSON := false

	for _, line := range lines {
		if !inJSONBlock && line == "```json" {
			inJSONBlock = true
			foundJSON = true
			continue
		}

		if inJSONBlock && line == "```" {
			break
		}

		if inJSONBlock {
			if jsonBuffer.Len() > 0 {
				jsonBuffer.WriteString("\n")
			}
			jsonBuffer.WriteString(line)
		}
	}

	if foundJSON {
		if jsonBuffer.Len() == 0 {
			// Found ```json block but it was empty, return empty string
			// The caller should handle this as an error
			return ""
		}
		return strings.TrimSpace(jsonBuffer.String())
	}

	// Fallback: clean the response text - sometimes models add extra whitespace or markdown formatting
	responseText = strings.TrimSpace(responseText)

	if strings.HasPrefix(responseText, "```json") && strings.HasSuffix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	} else {
		// These do nothing if the values aren't there, so always do it.
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	return responseText
}

// clip narrows text down to the outermost JSON object or array it contains.
// Whichever of `{` or `[` appears first decides the structure; the payload
// runs to the last occurrence of the matching closer. Models tend to lead
// with the answer and trail with prose, so the last closer is the right one
// far more often than the first.
func clip(text string) string {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	var start int
	var closer byte
	switch {
	case objStart == -1 && arrStart == -1:
		return ""
	case arrStart == -1 || (objStart != -1 && objStart < arrStart):
		start, closer = objStart, '}'
	default:
		start, closer = arrStart, ']'
	}

	end := strings.LastIndexByte(text, closer)
	if end < start {
		return ""
	}
	return text[start : end+1]
}

// Parse extracts and decodes the JSON payload embedded in responseText.
// Objects decode to map[string]any, arrays to []any. When no payload can
// be decoded, the raw text is returned unchanged so callers can store it
// verbatim instead of losing the model's output.
func Parse(responseText string) any {
	if candidate := clip(ExtractJSON(responseText)); candidate != "" {
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v
		}
	}
	return responseText
}

// Extract extracts the JSON payload from a text response and unmarshals it into the provided type.
func Extract[T any](responseText string) (T, error) {
	var result T

	jsonContent := clip(ExtractJSON(responseText))
	if jsonContent == "" {
		// Leave whatever the model said for Unmarshal to reject, so the
		// error carries the offending text rather than a blank input.
		jsonContent = strings.TrimSpace(responseText)
	}

	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return result, err
	}

	return result, nil
}
