package core

import (
	"math"
	"strconv"
	"strings"
)

// DefaultMinRating applies when a request carries no usable rating floor.
const DefaultMinRating = 1.0

// DefaultTopN is the result limit used by the interactive surfaces.
const DefaultTopN = 10

// Floor returns a rating floor for Query.MinRating.
func Floor(rating float64) *float64 {
	return &rating
}

// EffectiveMinRating returns the rating floor the query filters on.
func (q *Query) EffectiveMinRating() float64 {
	if q.MinRating == nil {
		return DefaultMinRating
	}
	return *q.MinRating
}

// ParseMinRating parses a user supplied rating floor.
// Empty or unparseable input yields DefaultMinRating.
func ParseMinRating(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMinRating
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultMinRating
	}
	return v
}

// ParseSortKey maps a sort key name to a SortKey.
// Unknown names, including the empty string, select SortBySimilarity.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rating":
		return SortByRating
	case "name":
		return SortByName
	default:
		return SortBySimilarity
	}
}

// ParseSortOrder maps "asc" to Ascending; anything else is Descending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return Ascending
	}
	return Descending
}
