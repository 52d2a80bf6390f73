package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"exusiai.dev/groupby/internal/model"
	"exusiai.dev/groupby/internal/repo/selector"
)

// Cat manages the records of the demo listing.
type Cat struct {
	db  *bun.DB
	sel selector.S[model.Cat]
}

func NewCat(db *bun.DB) *Cat {
	return &Cat{
		db:  db,
		sel: selector.New[model.Cat](db),
	}
}

func (r *Cat) CreateTable(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*model.Cat)(nil)).
		IfNotExists().
		Exec(ctx)
	return errors.Wrap(err, "create cats table")
}

func (r *Cat) Count(ctx context.Context) (int, error) {
	return r.sel.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q
	})
}

func (r *Cat) GetNames(ctx context.Context) ([]string, error) {
	cats, err := r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Column("name")
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names, nil
}

// BatchInsert writes cats in chunks of batchSize inside a single transaction.
func (r *Cat) BatchInsert(ctx context.Context, cats []*model.Cat, batchSize int) error {
	if batchSize <= 0 {
		batchSize = len(cats)
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(cats); start += batchSize {
			end := start + batchSize
			if end > len(cats) {
				end = len(cats)
			}
			chunk := cats[start:end]
			if _, err := tx.NewInsert().Model(&chunk).Exec(ctx); err != nil {
				return errors.Wrapf(err, "insert cats %d..%d", start, end)
			}
		}
		return nil
	})
}

func (r *Cat) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*model.Cat)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "delete cats")
	}
	return res.RowsAffected()
}
