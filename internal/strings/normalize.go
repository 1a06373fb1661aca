// Package strings holds the small text helpers shared by parsing and the UIs.
package strings

import (
	"strings"
)

// NormalizeWhitespace collapses runs of whitespace into single spaces.
// Ideographic spaces count as whitespace.
func NormalizeWhitespace(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// RemoveSpan drops value[start:end] and normalizes the whitespace left
// around the gap. Out-of-range bounds are clamped.
func RemoveSpan(value string, start, end int) string {
	start = min(max(start, 0), len(value))
	end = min(max(end, start), len(value))
	return NormalizeWhitespace(value[:start] + " " + value[end:])
}

// NormalizeLower returns the input lowercased.
func NormalizeLower(value string) string {
	return strings.ToLower(value)
}

// TrimSpace trims surrounding Unicode whitespace.
func TrimSpace(value string) string {
	return strings.TrimSpace(value)
}

// IsBlank reports whether value is empty after trimming whitespace.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// TrimTrailingSlash removes trailing '/' characters.
func TrimTrailingSlash(value string) string {
	return strings.TrimRight(value, "/")
}
