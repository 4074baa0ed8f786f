package features

import (
	"slices"
	"strings"
)

// OneHotEncoder maps a categorical label to a single indicator over the
// labels observed at fit time.
type OneHotEncoder struct {
	categories []string
	index      map[string]int
}

// FitOneHot learns the sorted distinct non-empty labels.
// Labels are compared after trimming surrounding whitespace.
func FitOneHot(values []string) *OneHotEncoder {
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			categories = append(categories, v)
		}
	}
	return NewOneHotEncoder(categories)
}

// NewOneHotEncoder restores an encoder from its categories.
func NewOneHotEncoder(categories []string) *OneHotEncoder {
	sorted := slices.Clone(categories)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	index := make(map[string]int, len(sorted))
	for i, c := range sorted {
		index[c] = i
	}
	return &OneHotEncoder{
		categories: sorted,
		index:      index,
	}
}

// Categories returns a copy of the fitted labels in column order.
func (e *OneHotEncoder) Categories() []string {
	return slices.Clone(e.categories)
}

// Len returns the number of categories.
func (e *OneHotEncoder) Len() int {
	return len(e.categories)
}

// Lookup returns the fitted category for value. Empty and unseen labels
// report false.
func (e *OneHotEncoder) Lookup(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if _, ok := e.index[value]; !ok {
		return "", false
	}
	return value, true
}
