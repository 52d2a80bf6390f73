package repo_test

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/groupby/internal/listing"
	"exusiai.dev/groupby/internal/model"
	"exusiai.dev/groupby/internal/pkg/testentry"
	"exusiai.dev/groupby/internal/repo"
)

func cats() []*model.Cat {
	var out []*model.Cat
	add := func(n int, color, breed string, age int, weight float64, adopted time.Time) {
		for i := 0; i < n; i++ {
			out = append(out, &model.Cat{
				Name:         fmt.Sprintf("%s %s %d", color, breed, i),
				Age:          age,
				Weight:       weight,
				Color:        color,
				Breed:        breed,
				IsVaccinated: null.BoolFrom(i%2 == 0),
				AdoptionDate: null.TimeFrom(adopted),
			})
		}
	}
	add(3, "BLK", "PER", 12, 4.0, time.Date(2022, 3, 6, 0, 0, 0, 0, time.UTC))
	add(2, "BLK", "SIA", 2, 6.0, time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC))
	add(3, "GRY", "PER", 5, 5.0, time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC))
	add(2, "WHT", "BEN", 14, 8.0, time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC))
	return out
}

func setup(t *testing.T) (*repo.Records, *listing.Listing) {
	db := testentry.DB(t)
	testentry.Seed(t, db, cats()...)

	registry, err := listing.NewRegistry(testentry.Config())
	require.NoError(t, err)
	l, err := registry.Get("cats")
	require.NoError(t, err)

	return repo.NewRecords(db), l
}

func TestGroupedRowsByColor(t *testing.T) {
	records, l := setup(t)

	rows, err := records.GroupedRows(context.Background(), l, url.Values{}, []string{"color"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []any{"BLK"}, rows[0].Group)
	assert.Equal(t, []any{"GRY"}, rows[1].Group)
	assert.Equal(t, []any{"WHT"}, rows[2].Group)

	assert.EqualValues(t, 5, rows[0].Values["id__count"])
	assert.EqualValues(t, 3, rows[1].Values["id__count"])
	assert.EqualValues(t, 2, rows[2].Values["id__count"])

	assert.EqualValues(t, 3, rows[0].Values["id__senior_cats"])
	assert.EqualValues(t, 0, rows[1].Values["id__senior_cats"])
	assert.EqualValues(t, 2, rows[2].Values["id__senior_cats"])

	assert.EqualValues(t, 2, rows[0].Values["breed__distinct_count"])
	assert.InDelta(t, 4.8, rows[0].Values["weight__avg"], 1e-9)
	assert.InDelta(t, 24.0, rows[0].Values["weight__sum"], 1e-9)

	// custom aggregates come back as the raw source values of the group
	assert.IsType(t, "", rows[0].Values["name_length__total"])
}

func TestGroupedRowsMultipleFieldsOrdered(t *testing.T) {
	records, l := setup(t)

	rows, err := records.GroupedRows(context.Background(), l, url.Values{}, []string{"breed", "color"})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	var groups [][]any
	for _, r := range rows {
		groups = append(groups, r.Group)
	}
	assert.Equal(t, [][]any{
		{"BEN", "WHT"},
		{"PER", "BLK"},
		{"PER", "GRY"},
		{"SIA", "BLK"},
	}, groups)
}

func TestGroupedRowsDateTransforms(t *testing.T) {
	records, l := setup(t)

	rows, err := records.GroupedRows(context.Background(), l, url.Values{}, []string{"adoption_date__year", "adoption_date__quarter"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.EqualValues(t, []any{int64(2022), int64(1)}, rows[0].Group)
	assert.EqualValues(t, []any{int64(2023), int64(3)}, rows[1].Group)
	assert.EqualValues(t, []any{int64(2023), int64(4)}, rows[2].Group)
	assert.EqualValues(t, 5, rows[2].Values["id__count"])

	// 2022-03-06 was a Sunday
	rows, err = records.GroupedRows(context.Background(), l, url.Values{"color": {"BLK"}, "breed": {"PER"}}, []string{"adoption_date__weekday"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, int64(1), rows[0].Group[0])
}

func TestGroupedRowsRespectsFilters(t *testing.T) {
	records, l := setup(t)

	rows, err := records.GroupedRows(context.Background(), l, url.Values{"breed": {"PER"}}, []string{"color"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 3, rows[0].Values["id__count"])
	assert.EqualValues(t, 3, rows[1].Values["id__count"])

	rows, err = records.GroupedRows(context.Background(), l, url.Values{"q": {"wht"}}, []string{"color"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"WHT"}, rows[0].Group)
}

func TestGroupedRowsEmpty(t *testing.T) {
	records, l := setup(t)

	rows, err := records.GroupedRows(context.Background(), l, url.Values{"color": {"ORG"}}, []string{"color"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListPaginates(t *testing.T) {
	records, l := setup(t)

	rows, count, err := records.List(context.Background(), l, url.Values{}, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	require.Len(t, rows, 4)
	assert.EqualValues(t, 5, rows[0]["id"])
	assert.Contains(t, rows[0], "name")
	assert.NotContains(t, rows[0], "adoption_date")

	rows, count, err = records.List(context.Background(), l, url.Values{"color": {"GRY"}}, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, rows, 3)
}

func TestListRejectsInvalidFilterValue(t *testing.T) {
	records, l := setup(t)

	_, _, err := records.List(context.Background(), l, url.Values{"is_vaccinated": {"maybe"}}, 1, 10)
	assert.Error(t, err)
}
