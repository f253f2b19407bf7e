// internal/util/util.go
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes flattens text onto one line and truncates it to maxRunes runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	text = SingleLine(text)
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// SingleLine collapses runs of whitespace, newlines included, into single spaces.
func SingleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
