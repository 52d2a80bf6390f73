package groupby

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGroupBy(t *testing.T) {
	assert.Nil(t, ParseGroupBy(""))
	assert.Equal(t, []string{"color"}, ParseGroupBy("color"))
	assert.Equal(t, []string{"color", "breed"}, ParseGroupBy("color,breed"))
	assert.Equal(t, []string{"color", ""}, ParseGroupBy("color,"))
}

func TestResolve(t *testing.T) {
	allowed := []string{"color", "breed", "is_vaccinated", "adoption_date__year"}

	tests := []struct {
		name      string
		requested []string
		want      Resolution
	}{
		{"empty", nil, Ungrouped{Reason: ReasonNoFields}},
		{"single", []string{"color"}, Grouped{Fields: []string{"color"}}},
		{"keeps order", []string{"breed", "color"}, Grouped{Fields: []string{"breed", "color"}}},
		{"transform", []string{"adoption_date__year"}, Grouped{Fields: []string{"adoption_date__year"}}},
		{"unknown", []string{"color", "name"}, Ungrouped{Reason: ReasonUnknownField, Field: "name"}},
		{"empty element", []string{"color", ""}, Ungrouped{Reason: ReasonUnknownField, Field: ""}},
		{"duplicates keep first", []string{"breed", "color", "breed"}, Grouped{Fields: []string{"breed", "color"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.requested, allowed))
		})
	}
}

func TestResolveNeverGroupsOutsideAllowList(t *testing.T) {
	allowed := []string{"color", "breed"}
	candidates := [][]string{
		{"weight"},
		{"color", "weight"},
		{"Color"},
		{"color__year"},
		{" color"},
	}

	for _, requested := range candidates {
		_, grouped := Resolve(requested, allowed).(Grouped)
		assert.False(t, grouped, "expect %v to fall back to the ungrouped listing", requested)
	}
}
