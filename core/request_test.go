package core

import "testing"

func TestParseMinRating(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "empty", input: "", want: DefaultMinRating},
		{name: "whitespace", input: "   ", want: DefaultMinRating},
		{name: "integer", input: "4", want: 4},
		{name: "decimal", input: "4.0", want: 4},
		{name: "padded", input: " 3.5 ", want: 3.5},
		{name: "garbage", input: "four", want: DefaultMinRating},
		{name: "NaN literal", input: "NaN", want: DefaultMinRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMinRating(tt.input); got != tt.want {
				t.Errorf("ParseMinRating(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input string
		want  SortKey
	}{
		{"", SortBySimilarity},
		{"similarity", SortBySimilarity},
		{"Rating", SortByRating},
		{"rating", SortByRating},
		{"NAME", SortByName},
		{"distance", SortBySimilarity},
	}

	for _, tt := range tests {
		if got := ParseSortKey(tt.input); got != tt.want {
			t.Errorf("ParseSortKey(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input string
		want  SortOrder
	}{
		{"asc", Ascending},
		{"ASC", Ascending},
		{"desc", Descending},
		{"", Descending},
		{"up", Descending},
	}

	for _, tt := range tests {
		if got := ParseSortOrder(tt.input); got != tt.want {
			t.Errorf("ParseSortOrder(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestQuery_EffectiveMinRating(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  float64
	}{
		{name: "absent", query: Query{}, want: DefaultMinRating},
		{name: "explicit zero", query: Query{MinRating: Floor(0)}, want: 0},
		{name: "explicit", query: Query{MinRating: Floor(4.5)}, want: 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.EffectiveMinRating(); got != tt.want {
				t.Errorf("EffectiveMinRating() = %v, want %v", got, tt.want)
			}
		})
	}
}
