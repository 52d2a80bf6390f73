package groupby

import (
	"strings"

	"github.com/samber/lo"
)

// Parameter is the query parameter carrying the comma separated group-by fields.
const Parameter = "groupby"

// ParseGroupBy splits the raw group-by parameter. An empty value means no grouping.
func ParseGroupBy(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

type UngroupedReason string

const (
	ReasonNoFields     UngroupedReason = "no_fields"
	ReasonUnknownField UngroupedReason = "unknown_field"
)

// Resolution is the outcome of validating a requested group-by spec: either Grouped or Ungrouped.
type Resolution interface {
	resolution()
}

type Grouped struct {
	// Fields are the validated group-by fields, duplicates removed keeping the first occurrence.
	Fields []string
}

type Ungrouped struct {
	Reason UngroupedReason
	// Field is the first field rejected by the allow-list, if any.
	Field string
}

func (Grouped) resolution()   {}
func (Ungrouped) resolution() {}

// Resolve validates requested against the allow-list of a listing. Anything but a non-empty
// list of allowed fields falls back to the ungrouped listing.
func Resolve(requested []string, allowed []string) Resolution {
	if len(requested) == 0 {
		return Ungrouped{Reason: ReasonNoFields}
	}
	for _, f := range requested {
		if !lo.Contains(allowed, f) {
			return Ungrouped{Reason: ReasonUnknownField, Field: f}
		}
	}
	return Grouped{Fields: lo.Uniq(requested)}
}
