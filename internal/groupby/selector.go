package groupby

import (
	"net/url"
	"strings"

	"github.com/samber/lo"

	"exusiai.dev/groupby/internal/pkg/querystring"
)

// FilterChoice is one entry of a list filter widget.
type FilterChoice struct {
	Selected    bool   `json:"selected"`
	QueryString string `json:"query_string"`
	Display     string `json:"display"`
}

// Filter is the group-by multi-select of a listing's filter sidebar. It takes part in the
// generic list filter protocol but never restricts the record set: grouping happens when
// the change list is rendered.
type Filter struct {
	// Fields is the allow-list of the listing, in declaration order.
	Fields []string
}

func (f *Filter) Title() string {
	return "Group by"
}

func (f *Filter) ExpectedParameters() []string {
	return []string{Parameter}
}

// Choices lists "All" followed by one toggle per allowed field. Selecting a field appends it
// to the active group-by fields, deselecting removes it keeping the order of the rest.
func (f *Filter) Choices(params url.Values) []FilterChoice {
	current := ParseGroupBy(params.Get(Parameter))

	choices := make([]FilterChoice, 0, len(f.Fields)+1)
	choices = append(choices, FilterChoice{
		Selected:    len(current) == 0,
		QueryString: querystring.Build(params, nil, Parameter),
		Display:     "All",
	})

	for _, field := range f.Fields {
		selected := lo.Contains(current, field)

		var next *string
		if selected {
			rest := lo.Without(current, field)
			if len(rest) > 0 {
				next = querystring.Ptr(strings.Join(rest, ","))
			}
		} else {
			next = querystring.Ptr(strings.Join(append(append([]string(nil), current...), field), ","))
		}

		choices = append(choices, FilterChoice{
			Selected:    selected,
			QueryString: querystring.Build(params, map[string]*string{Parameter: next}),
			Display:     Humanize(field),
		})
	}

	return choices
}
