package selector

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"exusiai.dev/groupby/internal/pkg/adminerr"
)

// S runs model queries for T. Missing rows surface as adminerr.ErrNotFound.
type S[T any] struct {
	DB bun.IDB
}

func New[T any](db bun.IDB) S[T] {
	return S[T]{
		DB: db,
	}
}

func (r S[T]) SelectOne(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (*T, error) {
	var model T
	err := fn(r.DB.NewSelect().Model(&model)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, adminerr.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &model, nil
}

func (r S[T]) SelectMany(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) ([]*T, error) {
	var model []*T
	err := fn(r.DB.NewSelect().Model(&model)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, adminerr.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return model, nil
}

func (r S[T]) Count(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (int, error) {
	return fn(r.DB.NewSelect().Model((*T)(nil))).Count(ctx)
}
