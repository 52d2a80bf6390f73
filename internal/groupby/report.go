package groupby

// GroupValue is one group key of a grouped row, with its display label when the
// field declares choices.
type GroupValue struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Display string `json:"display"`
}

type GroupedRow struct {
	Group  []GroupValue   `json:"group"`
	Values map[string]any `json:"values"`
}

type AggregateInfo struct {
	Key       string `json:"key"`
	Field     string `json:"field"`
	Operation string `json:"operation"`
	Label     string `json:"label"`
}

// Report is everything presentation needs to render a grouped listing.
type Report struct {
	Fields            []string
	FieldLabels       []string
	FieldsWithChoices []string
	Aggregates        []AggregateInfo
	Rows              []GroupedRow
	Totals            Totals
}

// Listing is the part of a listing definition a report is built against.
type Listing interface {
	FieldSet() FieldSet
	AggregateTable() Aggregates
	PrimaryKeyField() string
}

// BuildReport post-processes custom aggregates, reduces totals and resolves labels for the
// grouped rows of fields.
func BuildReport(l Listing, fields []string, rows []Row) *Report {
	aggs := l.AggregateTable()
	meta := l.FieldSet()

	PostProcess(rows, aggs)

	report := &Report{
		Fields:            fields,
		FieldLabels:       make([]string, 0, len(fields)),
		FieldsWithChoices: make([]string, 0),
		Aggregates:        make([]AggregateInfo, 0, len(aggs)),
		Rows:              make([]GroupedRow, 0, len(rows)),
		Totals:            Reduce(rows, aggs),
	}

	for _, name := range fields {
		if f, ok := meta.Lookup(BaseName(name)); ok && f.HasChoices() {
			report.FieldsWithChoices = append(report.FieldsWithChoices, name)
		}
		report.FieldLabels = append(report.FieldLabels, FieldLabel(name, meta))
	}

	for i := range aggs {
		a := &aggs[i]
		report.Aggregates = append(report.Aggregates, AggregateInfo{
			Key:       a.Key(),
			Field:     a.Field,
			Operation: a.Operation,
			Label:     AggregateLabel(a, l.PrimaryKeyField()),
		})
	}

	choices := NewChoiceIndex(meta)
	for _, row := range rows {
		group := make([]GroupValue, len(fields))
		for i, name := range fields {
			var v any
			if i < len(row.Group) {
				v = row.Group[i]
			}
			group[i] = GroupValue{Field: name, Value: v, Display: choices.Display(name, v)}
		}
		report.Rows = append(report.Rows, GroupedRow{Group: group, Values: row.Values})
	}

	return report
}
