package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalFirstObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		verdict Verdict
		want    map[string]any
	}{
		{
			name:    "plain object",
			raw:     `{"detected": true, "major": "CS"}`,
			verdict: Parsed,
			want:    map[string]any{"detected": true, "major": "CS"},
		},
		{
			name:    "object wrapped in prose",
			raw:     "Here is the result:\n```json\n{\"detected\": false}\n```\nHope this helps!",
			verdict: Parsed,
			want:    map[string]any{"detected": false},
		},
		{
			name:    "nested object returns outermost",
			raw:     `prefix {"a": {"b": 1}} suffix`,
			verdict: Parsed,
			want:    map[string]any{"a": map[string]any{"b": float64(1)}},
		},
		{
			name:    "braces inside string literals are skipped",
			raw:     `{"text": "use { and } freely"}`,
			verdict: Parsed,
			want:    map[string]any{"text": "use { and } freely"},
		},
		{
			name:    "no object at all",
			raw:     "sorry, I can't answer that",
			verdict: Malformed,
		},
		{
			name:    "unbalanced braces",
			raw:     `{"a": 1`,
			verdict: Malformed,
		},
		{
			name:    "balanced but invalid json",
			raw:     `{not json}`,
			verdict: Malformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			verdict := UnmarshalFirstObject(tt.raw, &got)
			require.Equal(t, tt.verdict, verdict)
			if tt.verdict == Parsed {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestUnmarshalFirstArray(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		verdict Verdict
		wantLen int
	}{
		{
			name:    "plain array",
			raw:     `[{"title": "a"}, {"title": "b"}]`,
			verdict: Parsed,
			wantLen: 2,
		},
		{
			name:    "array inside code fence",
			raw:     "```json\n[{\"title\": \"a\"}]\n```",
			verdict: Parsed,
			wantLen: 1,
		},
		{
			name:    "brackets inside strings are skipped",
			raw:     `[{"text": "see [1] for details"}]`,
			verdict: Parsed,
			wantLen: 1,
		},
		{
			name:    "no array",
			raw:     `{"title": "a"}`,
			verdict: Malformed,
		},
		{
			name:    "empty response",
			raw:     "",
			verdict: Malformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []map[string]any
			verdict := UnmarshalFirstArray(tt.raw, &got)
			require.Equal(t, tt.verdict, verdict)
			if tt.verdict == Parsed {
				assert.Len(t, got, tt.wantLen)
			}
		})
	}
}
