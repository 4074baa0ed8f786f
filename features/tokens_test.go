package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"en dash range", "Mon–Fri", []string{"Mon", "Tue", "Wed", "Thu", "Fri"}},
		{"ascii hyphen range", "Mon-Fri", []string{"Mon", "Tue", "Wed", "Thu", "Fri"}},
		{"em dash range", "Sat—Sun", []string{"Sat", "Sun"}},
		{"wrapping range", "Fri–Mon", []string{"Fri", "Sat", "Sun", "Mon"}},
		{"single day range", "Wed–Wed", []string{"Wed"}},
		{"full names", "Monday – Wednesday", []string{"Mon", "Tue", "Wed"}},
		{"comma list", "Mon, Wed, Fri", []string{"Mon", "Wed", "Fri"}},
		{"space list", "sat sun", []string{"Sat", "Sun"}},
		{"duplicates collapse", "Mon, Monday, mon", []string{"Mon"}},
		{"unknown tokens dropped", "Mon, Funday, Tue", []string{"Mon", "Tue"}},
		{"unknown range endpoint", "Mon–Xyz", []string{}},
		{"empty", "", []string{}},
		{"garbage", "whenever", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDays(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysOverlap(t *testing.T) {
	weekdays := ParseDays("Mon–Fri")
	assert.True(t, DaysOverlap(weekdays, ParseDays("Fri")))
	assert.False(t, DaysOverlap(weekdays, ParseDays("Sun")))
	assert.True(t, DaysOverlap(ParseDays("Fri–Mon"), ParseDays("Sun")))
	assert.False(t, DaysOverlap(nil, weekdays))
}

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"Pipe Repair", "Leak Fix"}, ParseSkills(" Pipe Repair ,Leak Fix, ,"))
	assert.Empty(t, ParseSkills(""))
	assert.Empty(t, ParseSkills(" , "))
}
