package features

import "slices"

// MultiLabelBinarizer maps a set of tokens to indicators over a fixed,
// sorted class vocabulary.
type MultiLabelBinarizer struct {
	classes []string
	index   map[string]int
}

// FitMultiLabel learns the sorted set of classes seen across all token sets.
func FitMultiLabel(sets [][]string) *MultiLabelBinarizer {
	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, set := range sets {
		for _, token := range set {
			if !seen[token] {
				seen[token] = true
				classes = append(classes, token)
			}
		}
	}
	return NewMultiLabelBinarizer(classes)
}

// NewMultiLabelBinarizer restores a binarizer from its classes.
// Classes are sorted and deduplicated.
func NewMultiLabelBinarizer(classes []string) *MultiLabelBinarizer {
	sorted := slices.Clone(classes)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	index := make(map[string]int, len(sorted))
	for i, class := range sorted {
		index[class] = i
	}
	return &MultiLabelBinarizer{
		classes: sorted,
		index:   index,
	}
}

// Classes returns a copy of the fitted classes in column order.
func (b *MultiLabelBinarizer) Classes() []string {
	return slices.Clone(b.classes)
}

// Len returns the number of classes.
func (b *MultiLabelBinarizer) Len() int {
	return len(b.classes)
}

// Known returns the tokens that belong to the fitted classes, without
// duplicates. Unknown tokens are dropped silently.
func (b *MultiLabelBinarizer) Known(tokens []string) []string {
	known := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := b.index[token]; ok && !slices.Contains(known, token) {
			known = append(known, token)
		}
	}
	return known
}
