package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"exusiai.dev/groupby/internal/groupby"
	"exusiai.dev/groupby/internal/pkg/adminerr"
	"exusiai.dev/groupby/internal/pkg/querystring"
)

// SearchParameter carries the free text search of a change list.
const SearchParameter = "q"

// ListFilter is one widget of a change list's filter sidebar.
type ListFilter interface {
	Title() string
	ExpectedParameters() []string
	Choices(params url.Values) []groupby.FilterChoice
	// Apply restricts q to the records selected by params.
	Apply(q *bun.SelectQuery, params url.Values) (*bun.SelectQuery, error)
}

// FieldFilter filters by exact value of a field with declared choices, or a boolean field.
type FieldFilter struct {
	Field groupby.Field
}

func (f *FieldFilter) Title() string {
	return groupby.FieldLabel(f.Field.Name, groupby.FieldSet{f.Field})
}

func (f *FieldFilter) ExpectedParameters() []string {
	return []string{f.Field.Name}
}

func (f *FieldFilter) options() []groupby.Choice {
	if f.Field.Type == groupby.FieldTypeBool && !f.Field.HasChoices() {
		return []groupby.Choice{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}
	}
	return f.Field.Choices
}

func (f *FieldFilter) Choices(params url.Values) []groupby.FilterChoice {
	current := params.Get(f.Field.Name)
	options := f.options()

	choices := make([]groupby.FilterChoice, 0, len(options)+1)
	choices = append(choices, groupby.FilterChoice{
		Selected:    current == "",
		QueryString: querystring.Build(params, nil, f.Field.Name),
		Display:     "All",
	})
	for _, o := range options {
		choices = append(choices, groupby.FilterChoice{
			Selected:    current == o.Value,
			QueryString: querystring.Build(params, map[string]*string{f.Field.Name: querystring.Ptr(o.Value)}),
			Display:     o.Label,
		})
	}
	return choices
}

func (f *FieldFilter) Apply(q *bun.SelectQuery, params url.Values) (*bun.SelectQuery, error) {
	raw := params.Get(f.Field.Name)
	if raw == "" {
		return q, nil
	}
	v, err := coerce(f.Field.Type, raw)
	if err != nil {
		return nil, adminerr.ErrInvalidReq.Msg("invalid value %q for filter %s", raw, f.Field.Name)
	}
	return q.Where("? = ?", bun.Ident(f.Field.Name), v), nil
}

func coerce(t groupby.FieldType, raw string) (any, error) {
	switch t {
	case groupby.FieldTypeBool:
		return strconv.ParseBool(raw)
	case groupby.FieldTypeInt:
		return strconv.ParseInt(raw, 10, 64)
	case groupby.FieldTypeFloat:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

// groupByFilter adapts the group-by selector to the list filter protocol. It is a pass-through:
// grouping is applied by the change list, not by restricting records.
type groupByFilter struct {
	*groupby.Filter
}

func (groupByFilter) Apply(q *bun.SelectQuery, _ url.Values) (*bun.SelectQuery, error) {
	return q, nil
}

// Filters returns the filter sidebar of the listing. The group-by selector comes last and
// only when the listing allows grouping at all.
func (l *Listing) Filters() []ListFilter {
	filters := make([]ListFilter, 0, len(l.ListFilter)+1)
	for _, name := range l.ListFilter {
		if f, ok := l.Fields.Lookup(name); ok {
			filters = append(filters, &FieldFilter{Field: *f})
		}
	}
	if l.Groupable() {
		filters = append(filters, groupByFilter{&groupby.Filter{Fields: l.GroupByFields}})
	}
	return filters
}

// Scope applies every list filter and the search term of params to q. The same scope
// restricts both the ungrouped and the grouped change list.
func (l *Listing) Scope(q *bun.SelectQuery, params url.Values) (*bun.SelectQuery, error) {
	var err error
	for _, f := range l.Filters() {
		q, err = f.Apply(q, params)
		if err != nil {
			return nil, err
		}
	}

	term := strings.TrimSpace(params.Get(SearchParameter))
	if term == "" || len(l.SearchFields) == 0 {
		return q, nil
	}
	pattern := "%" + strings.ToLower(term) + "%"
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, name := range l.SearchFields {
			q = q.WhereOr("LOWER(?) LIKE ?", bun.Ident(name), pattern)
		}
		return q
	}), nil
}

// IsGroupByFilter reports whether f is the group-by selector of a listing.
func IsGroupByFilter(f ListFilter) bool {
	_, ok := f.(groupByFilter)
	return ok
}
