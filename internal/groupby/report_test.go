package groupby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListing struct {
	fields FieldSet
	aggs   Aggregates
}

func (l *fakeListing) FieldSet() FieldSet         { return l.fields }
func (l *fakeListing) AggregateTable() Aggregates { return l.aggs }
func (l *fakeListing) PrimaryKeyField() string    { return "id" }

func newFakeListing(t *testing.T) *fakeListing {
	l := &fakeListing{
		fields: FieldSet{
			{Name: "color", VerboseName: "Coat colour", Choices: []Choice{{Value: "BLK", Label: "Black"}, {Value: "WHT", Label: "White"}}},
			{Name: "is_vaccinated", Type: FieldTypeBool},
		},
		aggs: Aggregates{
			{Field: "id", Operation: "count", Kind: KindCount},
			{Field: "weight", Operation: "avg", Kind: KindAvg, Label: "Average Weight"},
			{Field: "name_length", Operation: "total", Kind: KindCustom, Source: "name", Extractor: "len(value)", Combine: KindSum},
		},
	}
	for i := range l.aggs {
		require.NoError(t, l.aggs[i].Compile())
	}
	return l
}

func TestBuildReport(t *testing.T) {
	l := newFakeListing(t)
	rows := []Row{
		{Group: []any{"BLK", true}, Values: map[string]any{"id__count": int64(2), "weight__avg": 4.0, "name_length__total": `["Luna","Max"]`}},
		{Group: []any{"ORG", false}, Values: map[string]any{"id__count": int64(1), "weight__avg": 7.0, "name_length__total": `["Oliver"]`}},
	}

	report := BuildReport(l, []string{"color", "is_vaccinated"}, rows)

	assert.Equal(t, []string{"Coat colour", "Is Vaccinated"}, report.FieldLabels)
	assert.Equal(t, []string{"color"}, report.FieldsWithChoices)
	assert.Equal(t, []AggregateInfo{
		{Key: "id__count", Field: "id", Operation: "count", Label: "Count"},
		{Key: "weight__avg", Field: "weight", Operation: "avg", Label: "Average Weight"},
		{Key: "name_length__total", Field: "name_length", Operation: "total", Label: "Total name length"},
	}, report.Aggregates)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, GroupValue{Field: "color", Value: "BLK", Display: "Black"}, report.Rows[0].Group[0])
	assert.Equal(t, GroupValue{Field: "color", Value: "ORG", Display: "ORG"}, report.Rows[1].Group[0])
	assert.Equal(t, GroupValue{Field: "is_vaccinated", Value: true, Display: "true"}, report.Rows[0].Group[1])
	assert.Equal(t, 7.0, report.Rows[0].Values["name_length__total"])

	assert.Equal(t, 3.0, report.Totals["id__count"].Float64)
	assert.InDelta(t, 5.0, report.Totals["weight__avg"].Float64, 1e-9)
	assert.Equal(t, 13.0, report.Totals["name_length__total"].Float64)
}

func TestBuildReportEmpty(t *testing.T) {
	l := newFakeListing(t)

	report := BuildReport(l, []string{"color"}, nil)

	assert.Empty(t, report.Rows)
	assert.NotNil(t, report.Rows)
	for _, key := range l.aggs.Keys() {
		assert.True(t, report.Totals[key].Valid)
		assert.Zero(t, report.Totals[key].Float64)
	}
}

func TestBuildReportChoicesOfBaseField(t *testing.T) {
	l := &fakeListing{
		fields: FieldSet{
			{Name: "adoption_date", Type: FieldTypeDate, Choices: []Choice{{Value: "3", Label: "March"}}},
		},
		aggs: Aggregates{{Field: "id", Operation: "count", Kind: KindCount}},
	}
	rows := []Row{{Group: []any{int64(3)}, Values: map[string]any{"id__count": int64(4)}}}

	report := BuildReport(l, []string{"adoption_date__month"}, rows)

	assert.Equal(t, []string{"adoption_date__month"}, report.FieldsWithChoices)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "March", report.Rows[0].Group[0].Display)
}

func TestChoiceIndexDisplay(t *testing.T) {
	idx := NewChoiceIndex(FieldSet{{Name: "breed", Choices: []Choice{{Value: "PER", Label: "Persian"}}}})

	assert.Equal(t, "Persian", idx.Display("breed", "PER"))
	assert.Equal(t, "XYZ", idx.Display("breed", "XYZ"))
	assert.Equal(t, "", idx.Display("breed", nil))
	assert.Equal(t, "PER", idx.Display("color", "PER"))
	assert.Equal(t, "Persian", idx.Display("breed__year", "PER"))
}

func TestParseFieldPath(t *testing.T) {
	p, err := ParseFieldPath("adoption_date__quarter")
	require.NoError(t, err)
	assert.Equal(t, FieldPath{Name: "adoption_date__quarter", Base: "adoption_date", Transform: TransformQuarter}, p)

	p, err = ParseFieldPath("color")
	require.NoError(t, err)
	assert.Equal(t, TransformNone, p.Transform)

	_, err = ParseFieldPath("adoption_date__century")
	assert.Error(t, err)
}
