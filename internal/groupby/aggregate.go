package groupby

import (
	"fmt"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
)

type Kind string

const (
	KindCount         Kind = "count"
	KindSum           Kind = "sum"
	KindAvg           Kind = "avg"
	KindDistinctCount Kind = "distinct_count"
	KindMin           Kind = "min"
	KindMax           Kind = "max"
	KindCustom        Kind = "custom"
)

// Condition restricts a count to the records matching it, e.g. `age gt 10`.
type Condition struct {
	Field string `yaml:"field" validate:"required"`
	Op    string `yaml:"op" validate:"required,oneof=eq ne gt gte lt lte"`
	Value any    `yaml:"value"`
}

// Aggregate is one row of a listing's aggregate table. The pair (Field, Operation)
// identifies it and yields the key its values are stored under.
type Aggregate struct {
	Field     string `yaml:"field" validate:"required"`
	Operation string `yaml:"operation" validate:"required"`
	Kind      Kind   `yaml:"kind" validate:"required,oneof=count sum avg distinct_count min max custom"`
	Label     string `yaml:"label"`

	// Source is the column the aggregate reads. Defaults to Field.
	Source string     `yaml:"source"`
	Filter *Condition `yaml:"filter"`

	// Extractor is evaluated once per record of a group with the source column bound to `value`.
	// Only used by custom aggregates, whose extracted values are combined with Combine.
	Extractor string `yaml:"extractor" validate:"required_if=Kind custom"`
	Combine   Kind   `yaml:"combine" validate:"required_if=Kind custom,omitempty,oneof=count sum avg min max"`

	program *vm.Program
}

func (a *Aggregate) Key() string {
	return a.Field + LookupSep + a.Operation
}

func (a *Aggregate) SourceField() string {
	if a.Source != "" {
		return a.Source
	}
	return a.Field
}

// Reduction is the kind used to fold per-group values into a grand total.
func (a *Aggregate) Reduction() Kind {
	if a.Kind == KindCustom {
		return a.Combine
	}
	return a.Kind
}

// Compile prepares the extractor of a custom aggregate. It is called once while
// listings are loaded so a broken expression is rejected at startup.
func (a *Aggregate) Compile() error {
	if a.Kind != KindCustom {
		return nil
	}
	program, err := expr.Compile(a.Extractor)
	if err != nil {
		return fmt.Errorf("aggregate %s: invalid extractor: %w", a.Key(), err)
	}
	a.program = program
	return nil
}

type Aggregates []Aggregate

func (aggs Aggregates) Keys() []string {
	keys := make([]string, len(aggs))
	for i := range aggs {
		keys[i] = aggs[i].Key()
	}
	return keys
}

// WeightKey returns the key of the count used to weight averages when totals are reduced:
// the first plain (unfiltered) count in declaration order.
func (aggs Aggregates) WeightKey() (string, bool) {
	for i := range aggs {
		if aggs[i].Kind == KindCount && aggs[i].Filter == nil {
			return aggs[i].Key(), true
		}
	}
	return "", false
}
