package logutil

import "unicode/utf8"

// TruncateForLog shortens s to at most maxLen runes and marks the cut with "...".
// Provider error bodies and story text can be long and multi-byte, so the cut
// never splits a rune.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
