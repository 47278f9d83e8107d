package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestGenUUID(t *testing.T) {
	require.NotEmpty(t, GenUUID())
	require.NotEqual(t, GenUUID(), GenUUID())
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "xin chào", 100, "xin chào"},
		{"exactly max", "abcd", 4, "abcd"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"cut lands mid rune", "aữb", 2, "a"},
		{"cut lands on rune boundary", "aữb", 4, "aữ"},
		{"empty", "", 5, ""},
		{"zero max", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.in, tt.max)
			require.Equal(t, tt.want, got)
			require.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncateStringLongVietnamese(t *testing.T) {
	in := "a" + strings.Repeat("ữ", 2000)
	got := TruncateString(in, 3000)
	require.LessOrEqual(t, len(got), 3000)
	require.True(t, utf8.ValidString(got))
	require.True(t, strings.HasPrefix(in, got))
}
