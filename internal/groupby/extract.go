package groupby

import (
	"fmt"
	"math"

	"github.com/antonmedv/expr"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var ErrNotCompiled = errors.New("extractor has not been compiled")

// Extract runs the extractor of a custom aggregate over the source values of one group
// and combines the results. Extraction fails as a whole when any single record fails.
func (a *Aggregate) Extract(values []any) (float64, error) {
	if a.program == nil {
		return 0, ErrNotCompiled
	}

	extracted := make([]float64, 0, len(values))
	for i, v := range values {
		out, err := expr.Run(a.program, map[string]any{"value": v})
		if err != nil {
			return 0, errors.Wrapf(err, "record %d", i)
		}
		if a.Combine == KindCount {
			if truthy(out) {
				extracted = append(extracted, 1)
			}
			continue
		}
		f, err := numeric(out)
		if err != nil {
			return 0, errors.Wrapf(err, "record %d", i)
		}
		extracted = append(extracted, f)
	}

	return combine(a.Combine, extracted), nil
}

func combine(kind Kind, values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	switch kind {
	case KindAvg:
		return sum(values) / float64(len(values))
	case KindMin:
		m := math.Inf(1)
		for _, v := range values {
			m = math.Min(m, v)
		}
		return m
	case KindMax:
		m := math.Inf(-1)
		for _, v := range values {
			m = math.Max(m, v)
		}
		return m
	default:
		return sum(values)
	}
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	default:
		f, err := numeric(v)
		return err == nil && f != 0
	}
}

// numeric accepts Go numbers only; extractor results that are strings are an error.
func numeric(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("extractor returned non-numeric %T", v)
	}
}

// DecodeSourceValues decodes the JSON array the record store aggregates the source
// column of a custom aggregate into.
func DecodeSourceValues(raw any) ([]any, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, fmt.Errorf("unexpected source payload %T", raw)
	}
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "decode source values")
	}
	return values, nil
}

// PostProcess replaces the raw source payload of every custom aggregate in rows with the
// combined extracted value. A group whose extraction fails gets nil, which later makes the
// total of that key unavailable without touching any other key.
func PostProcess(rows []Row, aggs Aggregates) {
	for i := range aggs {
		a := &aggs[i]
		if a.Kind != KindCustom {
			continue
		}
		key := a.Key()
		for _, row := range rows {
			values, err := DecodeSourceValues(row.Values[key])
			if err == nil {
				var v float64
				v, err = a.Extract(values)
				if err == nil {
					row.Values[key] = v
					continue
				}
			}
			log.Warn().
				Str("evt.name", "groupby.postprocess.failed").
				Str("aggregate", key).
				Interface("group", row.Group).
				Err(err).
				Msg("custom aggregate extraction failed for group")
			row.Values[key] = nil
		}
	}
}
