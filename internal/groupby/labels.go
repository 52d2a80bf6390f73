package groupby

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CountLabel is the label of the row count aggregate, i.e. the count of the primary key.
const CountLabel = "Count"

// Humanize turns a field name into a title, e.g. "is_vaccinated" becomes "Is Vaccinated".
func Humanize(name string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "_", " "))
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// FieldLabel is the column header of a group-by field.
func FieldLabel(name string, fields FieldSet) string {
	if f, ok := fields.Lookup(name); ok && f.VerboseName != "" {
		return f.VerboseName
	}
	return Humanize(name)
}

// AggregateLabel is the column header of an aggregate. primaryKey identifies the
// row count aggregate.
func AggregateLabel(a *Aggregate, primaryKey string) string {
	if a.Label != "" {
		return a.Label
	}
	if a.Field == primaryKey && a.Operation == string(KindCount) {
		return CountLabel
	}
	return Capitalize(a.Operation) + " " + strings.ReplaceAll(a.Field, "_", " ")
}
