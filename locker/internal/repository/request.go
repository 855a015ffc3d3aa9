package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/smart-locker/locker-service/locker/internal/errs"
	"github.com/smart-locker/locker-service/locker/internal/model"
)

var requestColumns = []string{"id", "request_uid", "status", "item_id", "user_id", "issued_by", "comment", "created", "taken_date", "planned_return_date", "return_date"}

// CreateRequest books the item and inserts the request in one transaction.
// The item update is a check-and-set on the availability flag: of two
// concurrent bookings exactly one finds available=true.
func (r *repository) CreateRequest(ctx context.Context, req model.Request) (model.Request, error) {
	var out model.Request
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`update items set status = $2, available = false where id = $1 and available`,
			req.ItemID, model.ItemStatusReserved)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`select exists(select 1 from items where id = $1)`, req.ItemID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return errs.ErrNotFound
			}
			return errs.ErrItemUnavailable
		}

		query, args, err := qb.Insert(requestsTableName).
			Columns("request_uid", "status", "item_id", "user_id", "issued_by", "comment", "created", "planned_return_date").
			Values(uuid.New(), req.Status, req.ItemID, req.UserID, req.IssuedBy, req.Comment, req.Created, req.PlannedReturnDate).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		return tx.GetContext(ctx, &out, query, args...)
	})
	if err != nil {
		return model.Request{}, err
	}
	return out, nil
}

func (r *repository) GetRequest(ctx context.Context, id int) (model.Request, error) {
	query, args, err := qb.Select(requestColumns...).
		From(requestsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Request{}, err
	}
	var req model.Request
	if err := r.db.GetContext(ctx, &req, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Request{}, errs.ErrNotFound
		}
		return model.Request{}, err
	}
	return req, nil
}

func (r *repository) ListUserRequests(ctx context.Context, userID int) ([]model.RequestView, error) {
	q := `
	select r.id, r.request_uid, coalesce(i.name, 'Equipment') as item_name,
	       coalesce(i.specifications, '{}') as item_specs,
	       r.status, r.created, r.planned_return_date
	from requests r
	left join items i on i.id = r.item_id
	where r.user_id = $1
	order by r.created desc`
	var views []model.RequestView
	if err := r.db.SelectContext(ctx, &views, q, userID); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repository) ListAllRequests(ctx context.Context) ([]model.Request, error) {
	query, args, err := qb.Select(requestColumns...).
		From(requestsTableName).
		OrderBy("created desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var reqs []model.Request
	if err := r.db.SelectContext(ctx, &reqs, query, args...); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *repository) ListUserArchive(ctx context.Context, userID int) ([]model.RequestView, error) {
	q := `
	select a.id, a.request_uid, coalesce(i.name, 'Equipment') as item_name,
	       coalesce(i.specifications, '{}') as item_specs,
	       a.status, a.created, a.planned_return_date
	from archived_requests a
	left join items i on i.id = a.item_id
	where a.user_id = $1
	order by a.created desc`
	var views []model.RequestView
	if err := r.db.SelectContext(ctx, &views, q, userID); err != nil {
		return nil, err
	}
	return views, nil
}

// UpdateRequestStatus performs a guarded transition: the update applies only
// when the current status is one of from; otherwise ErrInvalidState.
func (r *repository) UpdateRequestStatus(ctx context.Context, id int, from []model.RequestStatus, to model.RequestStatus) (model.Request, error) {
	query, args, err := qb.Update(requestsTableName).
		Set("status", to).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"status": from}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Request{}, err
	}
	var req model.Request
	if err := r.db.GetContext(ctx, &req, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Request{}, r.requestMissingOr(ctx, id, errs.ErrInvalidState)
		}
		return model.Request{}, err
	}
	return req, nil
}

// MarkIssued moves an awaiting-pickup request to issued and flags the item
// as physically out.
func (r *repository) MarkIssued(ctx context.Context, id int, takenAt time.Time) (model.Request, error) {
	var out model.Request
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &out,
			`update requests set status = $2, taken_date = $3
			 where id = $1 and status = $4
			 returning *`,
			id, model.StatusIssued, takenAt, model.StatusAwaitingPickup)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.requestMissingOr(ctx, id, errs.ErrInvalidState)
			}
			return err
		}
		_, err = tx.ExecContext(ctx,
			`update items set status = $2 where id = $1`, out.ItemID, model.ItemStatusIssued)
		return err
	})
	if err != nil {
		return model.Request{}, err
	}
	return out, nil
}

func (r *repository) SetPlannedReturnDate(ctx context.Context, id int, date time.Time) (model.Request, error) {
	var req model.Request
	err := r.db.GetContext(ctx, &req,
		`update requests set planned_return_date = $2 where id = $1 returning *`, id, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Request{}, errs.ErrNotFound
		}
		return model.Request{}, err
	}
	return req, nil
}

// ArchiveRequest moves a finished request to the archive table, deletes the
// live row, restores the item and frees its cell, all in one transaction.
// The transition is guarded like UpdateRequestStatus: the locked row must
// still be in one of the from statuses, otherwise ErrInvalidState. This
// closes the window where a concurrent pickup lands between a caller's
// status check and the archive. A missing item is tolerated: the archive
// row is written regardless.
func (r *repository) ArchiveRequest(ctx context.Context, id int, from []model.RequestStatus, final model.RequestStatus, actualReturn *time.Time) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var req model.Request
		if err := tx.GetContext(ctx, &req,
			`select * from requests where id = $1 for update`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		allowed := false
		for _, st := range from {
			if req.Status == st {
				allowed = true
				break
			}
		}
		if !allowed {
			return errs.ErrInvalidState
		}

		query, args, err := qb.Insert(archiveTableName).
			Columns("id", "request_uid", "status", "item_id", "user_id", "issued_by", "comment", "created", "taken_date", "planned_return_date", "actual_return_date").
			Values(req.ID, req.RequestUID, final, req.ItemID, req.UserID, req.IssuedBy, req.Comment, req.Created, req.TakenDate, req.PlannedReturnDate, actualReturn).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `delete from requests where id = $1`, id); err != nil {
			return err
		}

		if err := releaseCellTx(ctx, tx, req.ItemID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`update items set status = $2, available = true where id = $1`,
			req.ItemID, model.ItemStatusFree)
		return err
	})
}

func (r *repository) requestMissingOr(ctx context.Context, id int, fallback error) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`select exists(select 1 from requests where id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return errs.ErrNotFound
	}
	return fallback
}
