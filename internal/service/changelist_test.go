package service_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/groupby/internal/groupby"
	"exusiai.dev/groupby/internal/listing"
	"exusiai.dev/groupby/internal/model"
	"exusiai.dev/groupby/internal/pkg/adminerr"
	"exusiai.dev/groupby/internal/pkg/testentry"
	"exusiai.dev/groupby/internal/repo"
	"exusiai.dev/groupby/internal/service"
)

type deps struct {
	fx.In

	ChangeList *service.ChangeList
	Generator  *service.CatGenerator
	Cats       *repo.Cat
}

func populate(t *testing.T) deps {
	var d deps
	testentry.Populate(t, []fx.Option{
		fx.Provide(listing.NewRegistry),
		repo.Module(),
		service.Module(),
	}, &d)
	return d
}

func seedColors(t *testing.T, d deps) {
	var cats []*model.Cat
	for color, n := range map[string]int{"BLK": 5, "GRY": 3, "WHT": 2} {
		for i := 0; i < n; i++ {
			cats = append(cats, &model.Cat{
				Name:   color + " cat " + string(rune('a'+i)),
				Age:    3 + i,
				Weight: float64(2 + i),
				Color:  color,
				Breed:  "PER",
			})
		}
	}
	require.NoError(t, d.Cats.BatchInsert(context.Background(), cats, 4))
}

func TestRenderGroupedTotals(t *testing.T) {
	d := populate(t)
	seedColors(t, d)

	view, err := d.ChangeList.Render(context.Background(), "cats", url.Values{"groupby": {"color"}})
	require.NoError(t, err)

	grouped, ok := view.(*model.GroupedChangeList)
	require.True(t, ok, "expected grouped change list, got %T", view)

	assert.True(t, grouped.Grouped)
	assert.Equal(t, "Cats", grouped.Title)
	assert.Equal(t, listing.DefaultChangeListTemplate, grouped.Template)
	assert.Equal(t, []string{"color"}, grouped.GroupByFields)
	assert.Equal(t, []string{"Color"}, grouped.GroupByFieldNames)
	assert.Equal(t, []string{"color"}, grouped.FieldsWithChoices)

	require.Len(t, grouped.GroupedResults, 3)
	assert.Equal(t, "Black", grouped.GroupedResults[0].Group[0].Display)
	assert.Equal(t, "Gray", grouped.GroupedResults[1].Group[0].Display)
	assert.Equal(t, "White", grouped.GroupedResults[2].Group[0].Display)

	require.True(t, grouped.Totals["id__count"].Valid)
	assert.Equal(t, 10.0, grouped.Totals["id__count"].Float64)
	assert.Equal(t, 3.0, grouped.Totals["breed__distinct_count"].Float64)

	// name lengths: "BLK cat a" and friends are all 9 characters long
	require.True(t, grouped.Totals["name_length__total"].Valid)
	assert.Equal(t, 90.0, grouped.Totals["name_length__total"].Float64)

	labels := make(map[string]string)
	for _, info := range grouped.AggregateInfo {
		labels[info.Key] = info.Label
	}
	assert.Equal(t, "Count", labels["id__count"])
	assert.Equal(t, "Average Weight", labels["weight__avg"])
}

func TestRenderWeightedAverage(t *testing.T) {
	d := populate(t)
	seedColors(t, d)

	view, err := d.ChangeList.Render(context.Background(), "cats", url.Values{"groupby": {"color"}})
	require.NoError(t, err)
	grouped := view.(*model.GroupedChangeList)

	// weights are 2,3,4,5,6 + 2,3,4 + 2,3 over 10 cats
	assert.InDelta(t, 34.0/10, grouped.Totals["weight__avg"].Float64, 1e-9)
}

func TestRenderUnknownFieldFallsBack(t *testing.T) {
	d := populate(t)
	seedColors(t, d)

	plain, err := d.ChangeList.Render(context.Background(), "cats", url.Values{})
	require.NoError(t, err)
	invalid, err := d.ChangeList.Render(context.Background(), "cats", url.Values{"groupby": {"color,owner"}})
	require.NoError(t, err)

	expected, ok := plain.(*model.ChangeList)
	require.True(t, ok)
	got, ok := invalid.(*model.ChangeList)
	require.True(t, ok)

	assert.False(t, got.Grouped)
	assert.Equal(t, "owner", got.GroupByIgnored)
	assert.Equal(t, expected.Results, got.Results)
	assert.Equal(t, 10, got.ResultCount)
	assert.Equal(t, 1, got.PageCount)
}

func TestRenderEmptyRecordSet(t *testing.T) {
	d := populate(t)

	view, err := d.ChangeList.Render(context.Background(), "cats", url.Values{"groupby": {"breed"}})
	require.NoError(t, err)
	grouped := view.(*model.GroupedChangeList)

	assert.Empty(t, grouped.GroupedResults)
	for _, key := range []string{"id__count", "weight__sum", "weight__avg", "name_length__total"} {
		assert.Equal(t, null.FloatFrom(0), grouped.Totals[key], key)
	}
}

func TestRenderRejectsUnknownListing(t *testing.T) {
	d := populate(t)

	_, err := d.ChangeList.Render(context.Background(), "dogs", url.Values{})
	var adminErr *adminerr.AdminError
	require.ErrorAs(t, err, &adminErr)
	assert.Equal(t, adminerr.CodeListingNotFound, adminErr.ErrorCode)

	_, err = d.ChangeList.Render(context.Background(), "cats", url.Values{service.PopupParameter: {"sometimes"}})
	require.ErrorAs(t, err, &adminErr)
	assert.Equal(t, adminerr.CodeInvalidRequest, adminErr.ErrorCode)
}

func TestRenderRejectsInvalidPage(t *testing.T) {
	d := populate(t)
	seedColors(t, d)

	for _, p := range []string{"zero", "0", "-1", "3"} {
		_, err := d.ChangeList.Render(context.Background(), "cats", url.Values{service.PageParameter: {p}})
		var adminErr *adminerr.AdminError
		require.ErrorAs(t, err, &adminErr, p)
		assert.Equal(t, adminerr.CodeInvalidRequest, adminErr.ErrorCode, p)
	}
}

func TestFiltersIncludeGroupBy(t *testing.T) {
	d := populate(t)

	specs, err := d.ChangeList.Filters("cats", url.Values{"groupby": {"color"}})
	require.NoError(t, err)
	require.Len(t, specs, 4)

	last := specs[3]
	assert.Equal(t, "Group by", last.Title)
	assert.Equal(t, []string{groupby.Parameter}, last.Parameters)
	assert.Equal(t, listing.DefaultGroupByFilterTemplate, last.Template)
	assert.False(t, last.Choices[0].Selected)
	assert.True(t, last.Choices[1].Selected)
	assert.Equal(t, "?", last.Choices[1].QueryString)
	assert.Equal(t, "?groupby=color%2Cbreed", last.Choices[2].QueryString)
}

func TestFilterLinksReturnToFirstPage(t *testing.T) {
	d := populate(t)
	_, err := d.Generator.WithSeed(7).Generate(context.Background(), service.GenerateOptions{Count: 150})
	require.NoError(t, err)
	seedColors(t, d)

	params := url.Values{service.PageParameter: {"2"}}
	_, err = d.ChangeList.Render(context.Background(), "cats", params)
	require.NoError(t, err)

	specs, err := d.ChangeList.Filters("cats", params)
	require.NoError(t, err)
	for _, spec := range specs {
		for _, choice := range spec.Choices {
			link, err := url.ParseQuery(strings.TrimPrefix(choice.QueryString, "?"))
			require.NoError(t, err)
			assert.NotContains(t, link, service.PageParameter, "%s: %s", spec.Title, choice.Display)
		}
	}

	// following the narrowing Gray link from page 2 lands on a valid page
	var gray string
	require.Equal(t, "Color", specs[1].Title)
	for _, choice := range specs[1].Choices {
		if choice.Display == "Gray" {
			gray = choice.QueryString
		}
	}
	require.NotEmpty(t, gray)
	link, err := url.ParseQuery(strings.TrimPrefix(gray, "?"))
	require.NoError(t, err)
	view, err := d.ChangeList.Render(context.Background(), "cats", link)
	require.NoError(t, err)
	assert.Equal(t, 1, view.(*model.ChangeList).Page)

	// the same holds for the group-by toggles of a grouped view
	specs, err = d.ChangeList.Filters("cats", url.Values{"groupby": {"color"}, service.PageParameter: {"2"}})
	require.NoError(t, err)
	groupBy := specs[len(specs)-1]
	assert.Equal(t, "?", groupBy.Choices[0].QueryString)
	assert.Equal(t, "?groupby=color%2Cbreed", groupBy.Choices[2].QueryString)
}

func TestGenerateCats(t *testing.T) {
	d := populate(t)
	gen := d.Generator.WithSeed(42)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	res, err := gen.Generate(context.Background(), service.GenerateOptions{Count: 450, Now: now})
	require.NoError(t, err)
	assert.Equal(t, 450, res.Created)

	names, err := d.Cats.GetNames(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, 450)
	seen := make(map[string]struct{})
	for _, n := range names {
		_, dup := seen[n]
		assert.False(t, dup, "duplicate name %s", n)
		seen[n] = struct{}{}
	}

	res, err = gen.Generate(context.Background(), service.GenerateOptions{Count: 5, Clear: true, Now: now})
	require.NoError(t, err)
	assert.EqualValues(t, 450, res.Deleted)

	count, err := d.Cats.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
