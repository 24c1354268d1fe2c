package textutil

import "strings"

// Excerpt collapses all whitespace runs in text to single spaces and
// truncates the result to at most max runes, appending an ellipsis when
// anything was cut. A non-positive max returns the empty string.
func Excerpt(text string, max int) string {
	if max <= 0 {
		return ""
	}
	flattened := strings.Join(strings.Fields(text), " ")
	runes := []rune(flattened)
	if len(runes) <= max {
		return flattened
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
