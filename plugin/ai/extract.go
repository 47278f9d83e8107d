package ai

import (
	"encoding/json"
)

// Models wrap JSON in prose and code fences more often than not. Instead of
// failing on the whole response, callers pull the first balanced object or
// array out of the raw text and get an explicit verdict back; a Malformed
// verdict is an expected outcome, not an error.

// Verdict is the outcome of extracting structured output from model text.
type Verdict int

const (
	// Parsed means a balanced JSON value was found and unmarshaled.
	Parsed Verdict = iota
	// Malformed means no balanced JSON value was found, or it failed to unmarshal.
	Malformed
)

// UnmarshalFirstObject extracts the first balanced {...} substring from raw
// and unmarshals it into v.
func UnmarshalFirstObject(raw string, v any) Verdict {
	return unmarshalFirst(raw, '{', '}', v)
}

// UnmarshalFirstArray extracts the first balanced [...] substring from raw
// and unmarshals it into v.
func UnmarshalFirstArray(raw string, v any) Verdict {
	return unmarshalFirst(raw, '[', ']', v)
}

func unmarshalFirst(raw string, open, close byte, v any) Verdict {
	sub, ok := extractBalanced(raw, open, close)
	if !ok {
		return Malformed
	}
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return Malformed
	}
	return Parsed
}

// extractBalanced returns the first substring delimited by a balanced pair
// of open/close bytes, skipping delimiters inside JSON string literals.
func extractBalanced(raw string, open, close byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			if depth > 0 {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}
	return "", false
}
