package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/groupby/internal/app/appconfig"
	"exusiai.dev/groupby/internal/groupby"
	"exusiai.dev/groupby/internal/listing"
	"exusiai.dev/groupby/internal/model"
	"exusiai.dev/groupby/internal/pkg/adminerr"
	"exusiai.dev/groupby/internal/pkg/observability"
	"exusiai.dev/groupby/internal/pkg/querystring"
	"exusiai.dev/groupby/internal/repo"
)

const (
	PageParameter  = querystring.PageParameter
	PopupParameter = "_popup"
)

type ChangeList struct {
	Records  *repo.Records
	Registry *listing.Registry
	Config   *appconfig.Config
}

func NewChangeList(records *repo.Records, registry *listing.Registry, conf *appconfig.Config) *ChangeList {
	return &ChangeList{
		Records:  records,
		Registry: registry,
		Config:   conf,
	}
}

// Render builds the change list of listing name for the request params. A valid group-by
// parameter yields a *model.GroupedChangeList; anything else, including group-by fields
// outside the allow-list, yields the plain *model.ChangeList.
func (s *ChangeList) Render(ctx context.Context, name string, params url.Values) (model.ChangeListView, error) {
	l, err := s.Registry.Get(name)
	if err != nil {
		return nil, err
	}

	base, err := s.base(l, params)
	if err != nil {
		return nil, err
	}

	switch res := groupby.Resolve(groupby.ParseGroupBy(params.Get(groupby.Parameter)), l.GroupByFields).(type) {
	case groupby.Grouped:
		view, err := s.grouped(ctx, l, base, params, res.Fields)
		if err != nil {
			return nil, err
		}
		observability.ChangeListRendered.WithLabelValues(l.Name, "grouped").Inc()
		return view, nil
	case groupby.Ungrouped:
		if res.Reason == groupby.ReasonUnknownField {
			log.Debug().
				Str("evt.name", "changelist.groupby.ignored").
				Str("listing", l.Name).
				Str("field", res.Field).
				Msg("group-by field not allowed, rendering ungrouped change list")
			base.GroupByIgnored = res.Field
		}
		if err := s.paginate(ctx, l, base, params); err != nil {
			return nil, err
		}
		observability.ChangeListRendered.WithLabelValues(l.Name, string(res.Reason)).Inc()
		return base, nil
	default:
		return nil, errors.Errorf("unexpected resolution %T", res)
	}
}

// Filters returns the filter sidebar of listing name.
func (s *ChangeList) Filters(name string, params url.Values) ([]model.FilterSpec, error) {
	l, err := s.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	return filterSpecs(l, params), nil
}

func (s *ChangeList) base(l *listing.Listing, params url.Values) (*model.ChangeList, error) {
	flat := make(map[string]string, len(params))
	for k := range params {
		flat[k] = params.Get(k)
	}

	popup := false
	if raw := params.Get(PopupParameter); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, adminerr.ErrInvalidReq.Msg("invalid %s value %q", PopupParameter, raw)
		}
		popup = v
	}

	return &model.ChangeList{
		Listing:      l.Name,
		Title:        l.Title,
		IsPopup:      popup,
		Permissions:  l.Permissions,
		Template:     l.ChangeListTemplate,
		Params:       flat,
		ListDisplay:  l.ListDisplay,
		Filters:      filterSpecs(l, params),
		HasSearch:    len(l.SearchFields) > 0,
		ExtraContext: l.ExtraContext,
	}, nil
}

func (s *ChangeList) paginate(ctx context.Context, l *listing.Listing, view *model.ChangeList, params url.Values) error {
	page := 1
	if raw := params.Get(PageParameter); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			return adminerr.ErrInvalidReq.Msg("invalid page %q", raw)
		}
		page = p
	}

	perPage := l.PerPage
	if perPage == 0 {
		perPage = s.Config.DefaultPerPage
	}

	results, count, err := s.Records.List(ctx, l, params, page, perPage)
	if err != nil {
		return err
	}

	pageCount := (count + perPage - 1) / perPage
	if page > 1 && page > pageCount {
		return adminerr.ErrInvalidReq.Msg("page %d is out of range", page)
	}

	view.Results = results
	view.ResultCount = count
	view.Page = page
	view.PerPage = perPage
	view.PageCount = pageCount
	return nil
}

func (s *ChangeList) grouped(ctx context.Context, l *listing.Listing, base *model.ChangeList, params url.Values, fields []string) (*model.GroupedChangeList, error) {
	rows, err := s.Records.GroupedRows(ctx, l, params, fields)
	if err != nil {
		return nil, err
	}

	report := groupby.BuildReport(l, fields, rows)
	for _, key := range report.Totals.Unavailable() {
		observability.UnavailableTotals.WithLabelValues(l.Name, key).Inc()
	}

	view := &model.GroupedChangeList{}
	if err := copier.Copy(view, base); err != nil {
		return nil, errors.Wrap(err, "copy change list context")
	}
	view.Grouped = true
	view.GroupedResults = report.Rows
	view.GroupByFields = report.Fields
	view.GroupByFieldNames = report.FieldLabels
	view.FieldsWithChoices = report.FieldsWithChoices
	view.AggregateInfo = report.Aggregates
	view.Totals = report.Totals
	return view, nil
}

func filterSpecs(l *listing.Listing, params url.Values) []model.FilterSpec {
	filters := l.Filters()
	specs := make([]model.FilterSpec, 0, len(filters))
	for _, f := range filters {
		spec := model.FilterSpec{
			Title:      f.Title(),
			Parameters: f.ExpectedParameters(),
			Choices:    f.Choices(params),
		}
		if listing.IsGroupByFilter(f) {
			spec.Template = l.GroupByFilterTemplate
		}
		specs = append(specs, spec)
	}
	return specs
}
