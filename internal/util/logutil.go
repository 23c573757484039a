// Package util holds small helpers shared across packages.
package util

import "strings"

// TruncateForLog caps a prompt or response preview at limit runes for log
// fields, marking the cut with an ellipsis. A non-positive limit yields an
// empty string.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
