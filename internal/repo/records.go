package repo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"exusiai.dev/groupby/internal/groupby"
	"exusiai.dev/groupby/internal/listing"
	"exusiai.dev/groupby/internal/pkg/observability"
)

var comparisons = map[string]string{
	"eq":  "=",
	"ne":  "<>",
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

// Records queries the table behind a listing. Column names come from validated listing
// definitions and are always passed as identifiers.
type Records struct {
	db *bun.DB
}

func NewRecords(db *bun.DB) *Records {
	return &Records{db: db}
}

// List returns one page of the records of l selected by params, and the number of records
// selected over all pages.
func (r *Records) List(ctx context.Context, l *listing.Listing, params url.Values, page, perPage int) ([]map[string]any, int, error) {
	q := r.db.NewSelect().Table(l.Table)
	q, err := l.Scope(q, params)
	if err != nil {
		return nil, 0, err
	}

	count, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count records")
	}

	q = q.Column(l.PrimaryKey)
	for _, name := range l.ListDisplay {
		if name != l.PrimaryKey {
			q = q.Column(name)
		}
	}

	rows := make([]map[string]any, 0, perPage)
	err = q.
		OrderExpr("? ASC", bun.Ident(l.PrimaryKey)).
		Limit(perPage).
		Offset((page - 1) * perPage).
		Scan(ctx, &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list records")
	}

	for _, row := range rows {
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
	}
	return rows, count, nil
}

// GroupedRows runs the single grouped aggregate query of l over the records selected by
// params. Rows come back ordered ascending by fields.
func (r *Records) GroupedRows(ctx context.Context, l *listing.Listing, params url.Values, fields []string) ([]groupby.Row, error) {
	q := r.db.NewSelect().Table(l.Table)
	q, err := l.Scope(q, params)
	if err != nil {
		return nil, err
	}

	for _, name := range fields {
		path, err := groupby.ParseFieldPath(name)
		if err != nil {
			return nil, err
		}
		expr := r.fieldExpr(path)
		q = q.ColumnExpr("? AS ?", expr, bun.Ident(name)).
			GroupExpr("?", expr).
			OrderExpr("? ASC", expr)
	}

	aggs := l.AggregateTable()
	for i := range aggs {
		q = q.ColumnExpr("? AS ?", r.aggregateExpr(&aggs[i]), bun.Ident(aggs[i].Key()))
	}

	start := time.Now()
	var raw []map[string]any
	if err := q.Scan(ctx, &raw); err != nil {
		return nil, errors.Wrap(err, "grouped query")
	}
	observability.GroupedQueryDuration.WithLabelValues(l.Name).Observe(time.Since(start).Seconds())

	rows := make([]groupby.Row, 0, len(raw))
	for _, m := range raw {
		row := groupby.Row{
			Group:  make([]any, len(fields)),
			Values: make(map[string]any, len(aggs)),
		}
		for i, name := range fields {
			row.Group[i] = normalize(m[name], false)
		}
		for i := range aggs {
			key := aggs[i].Key()
			row.Values[key] = normalize(m[key], aggs[i].Kind != groupby.KindCustom)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Records) isPostgres() bool {
	return r.db.Dialect().Name() == dialect.PG
}

// fieldExpr selects a group-by field. Weekdays are numbered 1 (Sunday) to 7 (Saturday)
// on every dialect.
func (r *Records) fieldExpr(path groupby.FieldPath) bun.Safe {
	col := r.db.Formatter().FormatQuery("?", bun.Ident(path.Base))
	if path.Transform == groupby.TransformNone {
		return bun.Safe(col)
	}

	if r.isPostgres() {
		switch path.Transform {
		case groupby.TransformWeekday:
			return bun.Safe(fmt.Sprintf("CAST(EXTRACT(DOW FROM %s) AS INTEGER) + 1", col))
		default:
			return bun.Safe(fmt.Sprintf("CAST(EXTRACT(%s FROM %s) AS INTEGER)", path.Transform, col))
		}
	}

	switch path.Transform {
	case groupby.TransformYear:
		return bun.Safe(fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", col))
	case groupby.TransformQuarter:
		return bun.Safe(fmt.Sprintf("(CAST(strftime('%%m', %s) AS INTEGER) + 2) / 3", col))
	case groupby.TransformMonth:
		return bun.Safe(fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", col))
	case groupby.TransformDay:
		return bun.Safe(fmt.Sprintf("CAST(strftime('%%d', %s) AS INTEGER)", col))
	default:
		return bun.Safe(fmt.Sprintf("CAST(strftime('%%w', %s) AS INTEGER) + 1", col))
	}
}

// aggregateExpr computes one aggregate per group. Custom aggregates collect their source
// column into a JSON array that the engine runs the extractor over.
func (r *Records) aggregateExpr(a *groupby.Aggregate) bun.Safe {
	f := r.db.Formatter()
	col := bun.Ident(a.SourceField())

	var query string
	args := []any{col}
	switch a.Kind {
	case groupby.KindCount:
		query = "COUNT(?)"
		if a.Filter != nil {
			query = "COUNT(CASE WHEN ? " + comparisons[a.Filter.Op] + " ? THEN 1 END)"
			args = []any{bun.Ident(a.Filter.Field), a.Filter.Value}
		}
	case groupby.KindDistinctCount:
		query = "COUNT(DISTINCT ?)"
	case groupby.KindSum:
		query = "SUM(?)"
	case groupby.KindAvg:
		query = "AVG(?)"
	case groupby.KindMin:
		query = "MIN(?)"
	case groupby.KindMax:
		query = "MAX(?)"
	case groupby.KindCustom:
		if r.isPostgres() {
			query = "json_agg(?)"
		} else {
			query = "json_group_array(?)"
		}
	}
	return bun.Safe(f.FormatQuery(query, args...))
}

// normalize turns driver specific values into plain Go values. Numeric results that the
// driver hands out as text, like Postgres AVG over integers, become float64 when numeric
// is set.
func normalize(v any, numeric bool) any {
	var s string
	switch t := v.(type) {
	case []byte:
		s = string(t)
	case string:
		s = t
	default:
		return v
	}
	if numeric {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
