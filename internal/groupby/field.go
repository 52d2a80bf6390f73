package groupby

import (
	"fmt"
	"strings"
)

// LookupSep separates a base field from a transform in a field path, e.g. "adoption_date__year".
const LookupSep = "__"

type Transform string

const (
	TransformNone    Transform = ""
	TransformYear    Transform = "year"
	TransformQuarter Transform = "quarter"
	TransformMonth   Transform = "month"
	TransformDay     Transform = "day"
	TransformWeekday Transform = "weekday"
)

var transforms = map[Transform]struct{}{
	TransformYear:    {},
	TransformQuarter: {},
	TransformMonth:   {},
	TransformDay:     {},
	TransformWeekday: {},
}

// FieldPath is a group-by field split into the column it reads and an optional date transform.
type FieldPath struct {
	Name      string
	Base      string
	Transform Transform
}

// BaseName strips the transform of a group-by field name, if any.
func BaseName(name string) string {
	base, _, _ := strings.Cut(name, LookupSep)
	return base
}

func ParseFieldPath(name string) (FieldPath, error) {
	base, transform, found := strings.Cut(name, LookupSep)
	if !found {
		return FieldPath{Name: name, Base: name}, nil
	}
	t := Transform(transform)
	if _, ok := transforms[t]; !ok {
		return FieldPath{}, fmt.Errorf("unsupported transform %q in field %q", transform, name)
	}
	return FieldPath{Name: name, Base: base, Transform: t}, nil
}

type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeInt    FieldType = "int"
	FieldTypeFloat  FieldType = "float"
	FieldTypeBool   FieldType = "bool"
	FieldTypeDate   FieldType = "date"
)

type Choice struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Label string `yaml:"label" json:"label" validate:"required"`
}

// Field is the metadata a listing declares for a column or a field path.
type Field struct {
	Name        string    `yaml:"name" validate:"required"`
	VerboseName string    `yaml:"verbose_name"`
	Type        FieldType `yaml:"type" validate:"omitempty,oneof=string int float bool date"`
	Choices     []Choice  `yaml:"choices" validate:"dive"`
}

func (f *Field) HasChoices() bool {
	return f != nil && len(f.Choices) > 0
}

type FieldSet []Field

func (s FieldSet) Lookup(name string) (*Field, bool) {
	for i := range s {
		if s[i].Name == name {
			return &s[i], true
		}
	}
	return nil, false
}

// ChoiceIndex maps (field, raw value) to the human readable label of that value.
type ChoiceIndex map[string]map[string]string

func NewChoiceIndex(fields FieldSet) ChoiceIndex {
	idx := make(ChoiceIndex)
	for _, f := range fields {
		if !f.HasChoices() {
			continue
		}
		labels := make(map[string]string, len(f.Choices))
		for _, c := range f.Choices {
			labels[c.Value] = c.Label
		}
		idx[f.Name] = labels
	}
	return idx
}

// Display returns the label the base field of field declares for value. Values without a
// declared choice are rendered as-is; nil stays empty.
func (idx ChoiceIndex) Display(field string, value any) string {
	if value == nil {
		return ""
	}
	raw := fmt.Sprint(value)
	if label, ok := idx[BaseName(field)][raw]; ok {
		return label
	}
	return raw
}
