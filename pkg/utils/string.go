package utils

import "strings"

// Truncate is a simple string truncate
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Preview collapses whitespace and truncates a string for single-line
// display in listings and search results.
func Preview(s string, maxLen int) string {
	return Truncate(strings.Join(strings.Fields(s), " "), maxLen)
}
