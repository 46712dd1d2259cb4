/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result recovers structured data from free-form model responses.

Judge models are asked for JSON but reply with prose around it, markdown
fences, trailing commentary, or occasionally nothing usable at all. This
package normalizes those responses in layers:

  - ExtractJSON strips markdown code fences (```json ... ```), keeping
    the fenced body of multi-line blocks intact.
  - Parse narrows the text to the outermost JSON object or array (first
    opening delimiter to last matching closer) and decodes it, falling
    back to the raw text so a malformed response is stored, not lost.
  - Extract combines the above with unmarshaling into a concrete type.

The coercion helpers (Field, Int, Float, String) absorb the remaining
looseness of decoded payloads: confidence scores arriving as "7", 7 or
7.0 all land on the same int.

# Basic Usage

	response := "The summary omits the budget discussion.\n" +
		"```json\n" +
		`{"reasoning": "budget line dropped", "confidence": 8, "rating": 4}` + "\n" +
		"```"

	type score struct {
		Reasoning  string `json:"reasoning"`
		Confidence int    `json:"confidence"`
		Rating     int    `json:"rating"`
	}

	s, err := result.Extract[score](response)
	if err != nil {
		// The response carried no decodable JSON; degrade.
	}

All functions operate on immutable inputs and are safe for concurrent use.
*/
package result
