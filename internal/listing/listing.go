package listing

import (
	"exusiai.dev/groupby/internal/groupby"
	"exusiai.dev/groupby/internal/model"
)

const (
	DefaultChangeListTemplate    = "admin/grouped_change_list.html"
	DefaultGroupByFilterTemplate = "admin/group_by_filter.html"
)

// Listing is the admin screen definition of one table: what the change list shows, how it
// can be filtered and searched, and which fields and aggregates grouped reports may use.
type Listing struct {
	Name       string `yaml:"name" validate:"required"`
	Title      string `yaml:"title" validate:"required"`
	Table      string `yaml:"table" validate:"required"`
	PrimaryKey string `yaml:"primary_key"`

	ListDisplay  []string `yaml:"list_display" validate:"required,min=1"`
	ListFilter   []string `yaml:"list_filter"`
	SearchFields []string `yaml:"search_fields"`
	PerPage      int      `yaml:"per_page" validate:"gte=0"`

	// GroupByFields is the allow-list of group-by fields, in the order the filter shows them.
	GroupByFields []string           `yaml:"group_by_fields"`
	Aggregates    groupby.Aggregates `yaml:"group_by_aggregates" validate:"dive"`

	Fields groupby.FieldSet `yaml:"fields" validate:"required,dive"`

	ChangeListTemplate    string `yaml:"change_list_template"`
	GroupByFilterTemplate string `yaml:"group_by_filter_template"`

	Permissions  model.Permissions `yaml:"permissions"`
	ExtraContext map[string]string `yaml:"extra_context"`
}

var _ groupby.Listing = (*Listing)(nil)

func (l *Listing) FieldSet() groupby.FieldSet {
	return l.Fields
}

func (l *Listing) AggregateTable() groupby.Aggregates {
	return l.Aggregates
}

func (l *Listing) PrimaryKeyField() string {
	return l.PrimaryKey
}

func (l *Listing) Groupable() bool {
	return len(l.GroupByFields) > 0
}

func (l *Listing) applyDefaults() {
	if l.PrimaryKey == "" {
		l.PrimaryKey = "id"
	}
	if l.ChangeListTemplate == "" {
		l.ChangeListTemplate = DefaultChangeListTemplate
	}
	if l.GroupByFilterTemplate == "" {
		l.GroupByFilterTemplate = DefaultGroupByFilterTemplate
	}
	if len(l.Aggregates) == 0 {
		l.Aggregates = groupby.Aggregates{{
			Field:     l.PrimaryKey,
			Operation: string(groupby.KindCount),
			Kind:      groupby.KindCount,
			Label:     groupby.CountLabel,
		}}
	}
}
