package search

import "strings"

// normalizeLabel folds a free text label for case-insensitive comparison.
func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// labelsMatch reports whether two labels are equal ignoring case and
// surrounding whitespace.
func labelsMatch(label, want string) bool {
	return normalizeLabel(label) == normalizeLabel(want)
}
