package utils

import "strings"

// Preview renders s as a single line of at most limit runes for log fields
// and terminal summaries. Whitespace runs collapse to one space; a clipped
// preview ends with "…".
func Preview(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	line := strings.Join(strings.Fields(s), " ")
	n := 0
	for i := range line {
		if n == limit {
			return line[:i] + "…"
		}
		n++
	}
	return line
}
