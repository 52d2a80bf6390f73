package listing

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"github.com/ahmetb/go-linq/v3"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"exusiai.dev/groupby/internal/app/appconfig"
	"exusiai.dev/groupby/internal/groupby"
	"exusiai.dev/groupby/internal/pkg/adminerr"
)

//go:embed listings.yaml
var builtin []byte

var (
	identifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	validate        = validator.New()
)

type document struct {
	Listings []*Listing `yaml:"listings" validate:"dive"`
}

// Registry holds every listing of the process. It is built once at startup and only read afterwards.
type Registry struct {
	listings map[string]*Listing
	names    []string
}

// Summary is the entry of a listing in the listing index.
type Summary struct {
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	GroupByFields []string `json:"group_by_fields"`
}

func NewRegistry(conf *appconfig.Config) (*Registry, error) {
	sources := [][]byte{builtin}
	if conf.ListingsPath != "" {
		data, err := os.ReadFile(conf.ListingsPath)
		if err != nil {
			return nil, errors.Wrap(err, "read listings file")
		}
		sources = append(sources, data)
	}

	r, err := Load(sources...)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("evt.name", "listing.registry.loaded").
		Strs("listings", r.names).
		Msg("listings loaded")

	return r, nil
}

// Load parses sources in order. A listing declared again in a later source replaces the
// earlier one.
func Load(sources ...[]byte) (*Registry, error) {
	r := &Registry{listings: make(map[string]*Listing)}
	for _, data := range sources {
		listings, err := Parse(data)
		if err != nil {
			return nil, err
		}
		for _, l := range listings {
			if _, exists := r.listings[l.Name]; !exists {
				r.names = append(r.names, l.Name)
			}
			r.listings[l.Name] = l
		}
	}
	return r, nil
}

// Parse decodes and validates a listings document. Every listing comes back with its
// defaults applied and its custom aggregates compiled.
func Parse(data []byte) ([]*Listing, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode listings")
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, errors.Wrap(err, "validate listings")
	}

	seen := make(map[string]struct{}, len(doc.Listings))
	for _, l := range doc.Listings {
		if _, dup := seen[l.Name]; dup {
			return nil, fmt.Errorf("listing %q declared twice", l.Name)
		}
		seen[l.Name] = struct{}{}

		l.applyDefaults()
		if err := l.check(); err != nil {
			return nil, errors.Wrapf(err, "listing %q", l.Name)
		}
	}
	return doc.Listings, nil
}

func (r *Registry) Get(name string) (*Listing, error) {
	l, ok := r.listings[name]
	if !ok {
		return nil, adminerr.ErrListingNotFound.WithExtras(adminerr.Extras{"listing": name})
	}
	return l, nil
}

func (r *Registry) All() []*Listing {
	out := make([]*Listing, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.listings[name])
	}
	return out
}

func (r *Registry) Index() []Summary {
	var summaries []Summary
	linq.From(r.All()).
		OrderByT(func(l *Listing) string { return l.Name }).
		SelectT(func(l *Listing) Summary {
			return Summary{Name: l.Name, Title: l.Title, GroupByFields: l.GroupByFields}
		}).
		ToSlice(&summaries)
	return summaries
}

// check validates the references between the parts of a listing. Field names end up as SQL
// identifiers, so they are restricted to lower case identifiers as well.
func (l *Listing) check() error {
	if !identifierRegex.MatchString(l.Table) {
		return fmt.Errorf("table %q is not a valid identifier", l.Table)
	}
	if !identifierRegex.MatchString(l.PrimaryKey) {
		return fmt.Errorf("primary key %q is not a valid identifier", l.PrimaryKey)
	}

	for _, f := range l.Fields {
		if !identifierRegex.MatchString(f.Name) {
			return fmt.Errorf("field %q is not a valid identifier", f.Name)
		}
	}

	column := func(what, name string) error {
		if name == l.PrimaryKey {
			return nil
		}
		if _, ok := l.Fields.Lookup(name); !ok {
			return fmt.Errorf("%s references undeclared field %q", what, name)
		}
		return nil
	}

	for _, name := range l.ListDisplay {
		if err := column("list_display", name); err != nil {
			return err
		}
	}
	for _, name := range l.SearchFields {
		if err := column("search_fields", name); err != nil {
			return err
		}
	}
	for _, name := range l.ListFilter {
		if err := column("list_filter", name); err != nil {
			return err
		}
		f, _ := l.Fields.Lookup(name)
		if f == nil || (!f.HasChoices() && f.Type != groupby.FieldTypeBool) {
			return fmt.Errorf("list_filter field %q needs choices or a bool type", name)
		}
	}

	for _, name := range l.GroupByFields {
		path, err := groupby.ParseFieldPath(name)
		if err != nil {
			return errors.Wrap(err, "group_by_fields")
		}
		if err := column("group_by_fields", path.Base); err != nil {
			return err
		}
		if path.Transform != groupby.TransformNone {
			if f, _ := l.Fields.Lookup(path.Base); f == nil || f.Type != groupby.FieldTypeDate {
				return fmt.Errorf("group_by_fields: transform %q needs a date field, %q is not", path.Transform, path.Base)
			}
		}
	}

	keys := make(map[string]struct{}, len(l.Aggregates))
	for i := range l.Aggregates {
		a := &l.Aggregates[i]
		key := a.Key()
		if !identifierRegex.MatchString(a.Field) || !identifierRegex.MatchString(a.Operation) || len(key) > 63 {
			return fmt.Errorf("aggregate key %q is not a valid identifier", key)
		}
		if _, dup := keys[key]; dup {
			return fmt.Errorf("aggregate %q declared twice", key)
		}
		keys[key] = struct{}{}

		if err := column("aggregate "+key, a.SourceField()); err != nil {
			return err
		}
		if a.Filter != nil {
			if err := column("aggregate "+key+" filter", a.Filter.Field); err != nil {
				return err
			}
			if a.Kind != groupby.KindCount {
				return fmt.Errorf("aggregate %q: filters are only supported on counts", key)
			}
		}
		if err := a.Compile(); err != nil {
			return err
		}
	}

	return nil
}
