package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"exusiai.dev/groupby/internal/listing"
)

var (
	ErrDatabaseNotReachable = errors.New("database not reachable")
	ErrNoListings           = errors.New("no listings registered")
)

type Health struct {
	DB       *bun.DB
	Registry *listing.Registry
}

func NewHealth(db *bun.DB, registry *listing.Registry) *Health {
	return &Health{
		DB:       db,
		Registry: registry,
	}
}

func (s *Health) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return errors.Wrap(ErrDatabaseNotReachable, err.Error())
	}

	if len(s.Registry.All()) == 0 {
		return ErrNoListings
	}

	return nil
}
