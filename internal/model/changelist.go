package model

import (
	"exusiai.dev/groupby/internal/groupby"
)

type Permissions struct {
	Add    bool `yaml:"add" json:"add"`
	Change bool `yaml:"change" json:"change"`
	Delete bool `yaml:"delete" json:"delete"`
	View   bool `yaml:"view" json:"view"`
}

// FilterSpec is one widget of the filter sidebar.
type FilterSpec struct {
	Title      string                 `json:"title"`
	Parameters []string               `json:"parameters"`
	Template   string                 `json:"template,omitempty"`
	Choices    []groupby.FilterChoice `json:"choices"`
}

// ChangeListView is implemented by *ChangeList and *GroupedChangeList.
type ChangeListView interface {
	changeListView()
}

// ChangeList is the context of the ungrouped, paginated record list.
type ChangeList struct {
	Listing        string            `json:"listing"`
	Title          string            `json:"title"`
	IsPopup        bool              `json:"is_popup"`
	Permissions    Permissions       `json:"permissions"`
	Template       string            `json:"template"`
	Params         map[string]string `json:"params"`
	ListDisplay    []string          `json:"list_display"`
	Filters        []FilterSpec      `json:"filters"`
	HasSearch      bool              `json:"has_search"`
	ExtraContext   map[string]string `json:"extra_context"`
	Grouped        bool              `json:"grouped"`
	GroupByIgnored string            `json:"groupby_ignored,omitempty"`

	Results     []map[string]any `json:"results"`
	ResultCount int              `json:"result_count"`
	Page        int              `json:"page"`
	PerPage     int              `json:"per_page"`
	PageCount   int              `json:"page_count"`
}

// GroupedChangeList is the context of the grouped report. Its listing fields are copied
// from the ChangeList the request would have rendered without grouping.
type GroupedChangeList struct {
	Listing      string            `json:"listing"`
	Title        string            `json:"title"`
	IsPopup      bool              `json:"is_popup"`
	Permissions  Permissions       `json:"permissions"`
	Template     string            `json:"template"`
	Params       map[string]string `json:"params"`
	Filters      []FilterSpec      `json:"filters"`
	HasSearch    bool              `json:"has_search"`
	ExtraContext map[string]string `json:"extra_context"`
	Grouped      bool              `json:"grouped"`

	GroupedResults    []groupby.GroupedRow    `json:"grouped_results"`
	GroupByFields     []string                `json:"groupby_fields"`
	GroupByFieldNames []string                `json:"groupby_field_names"`
	FieldsWithChoices []string                `json:"fields_with_choices"`
	AggregateInfo     []groupby.AggregateInfo `json:"aggregate_info"`
	Totals            groupby.Totals          `json:"totals"`
}

func (*ChangeList) changeListView()        {}
func (*GroupedChangeList) changeListView() {}
