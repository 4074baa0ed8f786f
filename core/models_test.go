package core

import "testing"

func TestFingerprintFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "simple catalog", content: "ID,Name\n1,Test Plumber\n"},
		{name: "empty content", content: ""},
		{name: "unicode content", content: "Days Available\nMon–Fri\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp1 := FingerprintFromContent([]byte(tt.content))
			fp2 := FingerprintFromContent([]byte(tt.content))

			if fp1 != fp2 {
				t.Errorf("FingerprintFromContent() produced different fingerprints for same content: %d vs %d", fp1, fp2)
			}
		})
	}
}

func TestFingerprintFromContent_Different(t *testing.T) {
	fp1 := FingerprintFromContent([]byte("1,Plumber"))
	fp2 := FingerprintFromContent([]byte("2,Plumber"))

	if fp1 == fp2 {
		t.Errorf("FingerprintFromContent() produced same fingerprint for different content")
	}
}

func TestProvider_Recommendation(t *testing.T) {
	p := Provider{
		ID:          7,
		Name:        "Test Plumber",
		ServiceType: "Plumber",
		Location:    "Kathmandu",
		Rating:      4.5,
		Skills:      "Pipe Repair, Leak Fix",
		Days:        "Mon–Fri",
		Contact:     "9801000000",
	}

	rec := p.Recommendation()
	want := Recommendation{
		ID:          7,
		Name:        "Test Plumber",
		ServiceType: "Plumber",
		Location:    "Kathmandu",
		Rating:      4.5,
		Skills:      "Pipe Repair, Leak Fix",
		Days:        "Mon–Fri",
		Contact:     "9801000000",
	}
	if rec != want {
		t.Errorf("Provider.Recommendation() = %+v, want %+v", rec, want)
	}
}

func TestQuery_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{name: "zero value", query: Query{}, want: true},
		{name: "only rating", query: Query{MinRating: Floor(4)}, want: true},
		{name: "whitespace fields", query: Query{ServiceType: "  ", Days: "\t"}, want: true},
		{name: "service type", query: Query{ServiceType: "Plumber"}, want: false},
		{name: "days", query: Query{Days: "Sun"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.IsEmpty(); got != tt.want {
				t.Errorf("Query.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortKeyAndOrderStrings(t *testing.T) {
	if SortBySimilarity.String() != "similarity" || SortByRating.String() != "rating" || SortByName.String() != "name" {
		t.Errorf("unexpected SortKey strings")
	}
	if Ascending.String() != "asc" || Descending.String() != "desc" {
		t.Errorf("unexpected SortOrder strings")
	}
}
