package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/groupby/internal/model"
	"exusiai.dev/groupby/internal/repo"
)

var (
	catFirstNames = []string{
		"Whiskers", "Fluffy", "Luna", "Oliver", "Simba", "Nala", "Leo", "Bella",
		"Charlie", "Max", "Lucy", "Oreo", "Mittens", "Shadow", "Cleo", "Tiger",
		"Daisy", "Felix", "Lily", "Oscar", "Zoe", "Smokey", "Milo", "Kitty",
		"Jasper", "Sophie", "Toby", "Chloe", "Mia", "Jack", "Ruby", "Pumpkin",
		"Pepper", "Rocky", "Lola", "Sammy", "Penny", "Finn", "Rosie", "Gus",
	}
	catLastNames = []string{
		"Whiskersworth", "Purrson", "Meowington", "Clawford", "Fuzzington",
		"Pawter", "Scratcherson", "Fluffington", "Tabbyton", "Furrington",
	}
)

const insertBatchSize = 500

type GenerateOptions struct {
	Count int
	// Clear deletes every existing cat first.
	Clear bool
	// Now anchors the adoption dates. Zero means time.Now.
	Now time.Time
}

type GenerateResult struct {
	Deleted int64
	Created int
}

// CatGenerator fills the demo listing with random cats.
type CatGenerator struct {
	Cats *repo.Cat
	rand *rand.Rand
}

func NewCatGenerator(cats *repo.Cat) *CatGenerator {
	return &CatGenerator{
		Cats: cats,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithSeed makes the generated cats reproducible.
func (s *CatGenerator) WithSeed(seed int64) *CatGenerator {
	return &CatGenerator{Cats: s.Cats, rand: rand.New(rand.NewSource(seed))}
}

// Generate creates opts.Count cats with names not used by any existing cat. Once every
// first and last name combination is taken, names get a numeric suffix.
func (s *CatGenerator) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	result := &GenerateResult{}

	if opts.Clear {
		deleted, err := s.Cats.DeleteAll(ctx)
		if err != nil {
			return nil, err
		}
		result.Deleted = deleted
		log.Info().
			Str("evt.name", "generator.cats.cleared").
			Int64("deleted", deleted).
			Msg("deleted all existing cats")
	}

	existing, err := s.Cats.GetNames(ctx)
	if err != nil {
		return nil, err
	}
	used := lo.SliceToMap(existing, func(name string) (string, struct{}) {
		return name, struct{}{}
	})

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cats := make([]*model.Cat, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		name := s.uniqueName(used)
		used[name] = struct{}{}
		cats = append(cats, s.cat(name, now))
	}

	if err := s.Cats.BatchInsert(ctx, cats, insertBatchSize); err != nil {
		return nil, err
	}
	result.Created = len(cats)

	log.Info().
		Str("evt.name", "generator.cats.created").
		Int("created", result.Created).
		Msg("generated cats")

	return result, nil
}

func (s *CatGenerator) uniqueName(used map[string]struct{}) string {
	if len(used) < len(catFirstNames)*len(catLastNames) {
		for {
			name := s.pick(catFirstNames) + " " + s.pick(catLastNames)
			if _, taken := used[name]; !taken {
				return name
			}
		}
	}

	base := s.pick(catFirstNames) + " " + s.pick(catLastNames)
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s %d", base, n)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}

func (s *CatGenerator) cat(name string, now time.Time) *model.Cat {
	c := &model.Cat{
		Name:         name,
		Age:          1 + s.rand.Intn(15),
		IsVaccinated: null.BoolFrom(s.rand.Intn(2) == 1),
		Weight:       math.Round((2.0+s.rand.Float64()*8.0)*10) / 10,
		Color:        s.pick(model.CatColors),
		Breed:        s.pick(model.CatBreeds),
	}
	// one in ten cats has not been adopted yet
	if s.rand.Intn(10) != 0 {
		days := s.rand.Intn(5 * 365)
		adopted := now.AddDate(0, 0, -days)
		c.AdoptionDate = null.TimeFrom(time.Date(adopted.Year(), adopted.Month(), adopted.Day(), 0, 0, 0, 0, time.UTC))
	}
	return c
}

func (s *CatGenerator) pick(values []string) string {
	return values[s.rand.Intn(len(values))]
}
