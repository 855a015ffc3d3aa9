package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/smart-locker/locker-service/locker/internal/errs"
	"github.com/smart-locker/locker-service/locker/internal/model"
)

func (r *repository) ListFreeCells(ctx context.Context) ([]model.Cell, error) {
	query, args, err := qb.Select("id", "size", "location", "is_free").
		From(cellsTableName).
		Where(sq.Eq{"is_free": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var cells []model.Cell
	if err := r.db.SelectContext(ctx, &cells, query, args...); err != nil {
		return nil, err
	}
	return cells, nil
}

// AssignCell swaps the item into the target cell. The previous cell (if any)
// is freed and the target cell is occupied within the same transaction, so
// no intermediate state is ever observable. The partial unique index on
// items.cell_id backs the one-item-per-cell invariant.
func (r *repository) AssignCell(ctx context.Context, itemID, cellID int) error {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`update cells set is_free = false where id = $1 and is_free`, cellID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`select exists(select 1 from cells where id = $1)`, cellID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return errs.ErrNotFound
			}
			return errs.ErrCellOccupied
		}

		var prevCell sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`update items set cell_id = $2
			 where id = $1
			 returning (select cell_id from items where id = $1)`,
			itemID, cellID).Scan(&prevCell); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if prevCell.Valid {
			if _, err := tx.ExecContext(ctx,
				`update cells set is_free = true where id = $1`, prevCell.Int64); err != nil {
				return err
			}
		}
		return nil
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errs.ErrCellOccupied
	}
	return err
}

// ReleaseCell frees whatever cell the item holds. A no-op when the item has
// no cell.
func (r *repository) ReleaseCell(ctx context.Context, itemID int) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		return releaseCellTx(ctx, tx, itemID)
	})
}

func releaseCellTx(ctx context.Context, tx *sqlx.Tx, itemID int) error {
	var cellID sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`update items set cell_id = null
		 where id = $1
		 returning (select cell_id from items where id = $1)`,
		itemID).Scan(&cellID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// item already gone, nothing to free
			return nil
		}
		return err
	}
	if !cellID.Valid {
		return nil
	}
	_, err = tx.ExecContext(ctx, `update cells set is_free = true where id = $1`, cellID.Int64)
	return err
}
