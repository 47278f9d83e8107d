package util

import (
	"unicode/utf8"

	"github.com/lithammer/shortuuid/v4"
)

// GenUUID generates a short unique id for entity UIDs.
func GenUUID() string {
	return shortuuid.New()
}

// TruncateString shortens s to at most max bytes without splitting a rune.
// Chat content is mostly Vietnamese, so a plain byte slice would regularly
// cut a multi-byte character in half.
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}
