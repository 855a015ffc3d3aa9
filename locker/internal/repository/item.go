package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/smart-locker/locker-service/locker/internal/errs"
	"github.com/smart-locker/locker-service/locker/internal/model"
)

var itemColumns = []string{"id", "inv_key", "name", "status", "owner", "available", "access_level", "specifications", "cell_id"}

func (r *repository) GetItem(ctx context.Context, id int) (model.Item, error) {
	query, args, err := qb.Select(itemColumns...).
		From(itemsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}

	var item model.Item
	if err := r.db.GetContext(ctx, &item, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errs.ErrNotFound
		}
		return model.Item{}, err
	}
	return item, nil
}

func (r *repository) ListItems(ctx context.Context) ([]model.Item, error) {
	query, args, err := qb.Select(itemColumns...).
		From(itemsTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Item
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListAvailableItems(ctx context.Context) ([]model.Item, error) {
	query, args, err := qb.Select(itemColumns...).
		From(itemsTableName).
		Where(sq.Eq{"status": model.ItemStatusFree}).
		Where(sq.Eq{"available": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Item
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
