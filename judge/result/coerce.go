/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Field returns the named member of a decoded JSON object.
// The second return is false when v is not an object or the field is absent.
func Field(v any, name string) (any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	val, ok := obj[name]
	return val, ok
}

// Int coerces a decoded JSON value to an int. Models emit numeric fields
// as JSON numbers, quoted numbers, and occasionally floats; fractional
// values truncate toward zero. Anything unusable yields the fallback.
func Int(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return fallback
}

// Float coerces a decoded JSON value to a float64, with the same
// tolerance as Int.
func Float(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return fallback
}

// String coerces a decoded JSON value to a string. Non-string scalars
// render through their JSON form; missing or composite values yield the
// fallback.
func String(v any, fallback string) string {
	switch s := v.(type) {
	case string:
		return s
	case float64, bool, json.Number:
		b, err := json.Marshal(s)
		if err != nil {
			return fallback
		}
		return string(b)
	}
	return fallback
}
