package groupby

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"
)

// Row is one grouped result as returned by the record store.
type Row struct {
	// Group holds the group key values in group-by field order.
	Group []any
	// Values maps aggregate keys to the value computed for the group.
	Values map[string]any
}

// Totals maps aggregate keys to their grand total. An invalid null.Float marks
// a total that could not be computed.
type Totals map[string]null.Float

func (t Totals) Unavailable() []string {
	var keys []string
	for k, v := range t {
		if !v.Valid {
			keys = append(keys, k)
		}
	}
	return keys
}

var ErrNullValue = errors.New("aggregate value is null")

// Reduce folds grouped rows into grand totals. Totals are derived from the grouped rows
// only, never from the underlying records. A failure while reducing one key marks that
// key unavailable and leaves every other key intact.
func Reduce(rows []Row, aggs Aggregates) Totals {
	totals := make(Totals, len(aggs))
	weightKey, weighted := aggs.WeightKey()

	for i := range aggs {
		a := &aggs[i]
		key := a.Key()

		var (
			total float64
			err   error
		)
		switch a.Reduction() {
		case KindAvg:
			if weighted {
				total, err = weightedMean(rows, key, weightKey)
			} else {
				total, err = mean(rows, key)
			}
		case KindMin:
			total, err = extremum(rows, key, math.Min)
		case KindMax:
			total, err = extremum(rows, key, math.Max)
		default:
			total, err = sumOf(rows, key)
		}

		if err != nil {
			totals[key] = null.Float{}
			continue
		}
		totals[key] = null.FloatFrom(total)
	}

	return totals
}

func sumOf(rows []Row, key string) (float64, error) {
	var s float64
	for _, row := range rows {
		v, err := toFloat(row.Values[key])
		if err != nil {
			return 0, errors.Wrap(err, key)
		}
		s += v
	}
	return s, nil
}

// mean is the unweighted mean of per-group values. Only used when no count is
// available to weight groups with.
func mean(rows []Row, key string) (float64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	s, err := sumOf(rows, key)
	if err != nil {
		return 0, err
	}
	return s / float64(len(rows)), nil
}

// weightedMean combines per-group averages as Σ(avg·count) / Σcount.
func weightedMean(rows []Row, key, weightKey string) (float64, error) {
	var weightedSum, totalCount float64
	for _, row := range rows {
		avg, err := toFloat(row.Values[key])
		if err != nil {
			return 0, errors.Wrap(err, key)
		}
		count, err := toFloat(row.Values[weightKey])
		if err != nil {
			return 0, errors.Wrap(err, weightKey)
		}
		weightedSum += avg * count
		totalCount += count
	}
	if totalCount <= 0 {
		return 0, nil
	}
	return weightedSum / totalCount, nil
}

func extremum(rows []Row, key string, pick func(a, b float64) float64) (float64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	var out float64
	for i, row := range rows {
		v, err := toFloat(row.Values[key])
		if err != nil {
			return 0, errors.Wrap(err, key)
		}
		if i == 0 {
			out = v
			continue
		}
		out = pick(out, v)
	}
	return out, nil
}

// toFloat converts a value scanned from the database. Drivers report NUMERIC columns
// as text, so numeric strings are accepted here.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, ErrNullValue
	case string:
		return strconv.ParseFloat(n, 64)
	case []byte:
		return strconv.ParseFloat(string(n), 64)
	case bool:
		return 0, fmt.Errorf("boolean %v is not summable", n)
	default:
		return numeric(v)
	}
}
