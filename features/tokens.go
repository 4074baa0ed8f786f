package features

import "strings"

// Weekdays lists the canonical day tokens in week order.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// rangeSeparators are accepted between the two ends of a day range.
// The en dash is the catalog's own notation.
const rangeSeparators = "–—-"

// dayIndex matches a day name on its first three letters, case-insensitively.
func dayIndex(s string) (int, bool) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 3 {
		return 0, false
	}
	prefix := strings.ToLower(string(runes[:3]))
	for i, day := range Weekdays {
		if strings.ToLower(day) == prefix {
			return i, true
		}
	}
	return 0, false
}

// expandRange returns the inclusive day sequence from start to end,
// wrapping from Sunday to Monday when end precedes start.
func expandRange(start, end int) []string {
	days := make([]string, 0, 7)
	for i := start; ; i = (i + 1) % len(Weekdays) {
		days = append(days, Weekdays[i])
		if i == end {
			break
		}
	}
	return days
}

// ParseDays parses an availability description into canonical day tokens.
//
// Comma separated segments are parsed independently. A segment containing a
// range separator is expanded as an inclusive range; if either end is not a
// recognizable day the segment contributes nothing. Other segments are split on
// whitespace and every recognizable day is kept. The result is deduplicated and
// keeps the order of first appearance. Malformed input yields an empty slice.
func ParseDays(s string) []string {
	seen := make(map[string]bool, len(Weekdays))
	days := make([]string, 0, len(Weekdays))
	add := func(day string) {
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	for _, segment := range strings.Split(s, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		if sep := strings.IndexAny(segment, rangeSeparators); sep >= 0 {
			from := segment[:sep]
			to := strings.TrimLeft(segment[sep:], rangeSeparators)
			start, okStart := dayIndex(from)
			end, okEnd := dayIndex(to)
			if !okStart || !okEnd {
				continue
			}
			for _, day := range expandRange(start, end) {
				add(day)
			}
			continue
		}

		for _, token := range strings.Fields(segment) {
			if idx, ok := dayIndex(token); ok {
				add(Weekdays[idx])
			}
		}
	}

	return days
}

// DaysOverlap reports whether two day token sets share at least one day.
func DaysOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, day := range a {
		set[day] = true
	}
	for _, day := range b {
		if set[day] {
			return true
		}
	}
	return false
}

// ParseSkills splits a comma separated skills string into trimmed,
// non-empty skill tokens.
func ParseSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
