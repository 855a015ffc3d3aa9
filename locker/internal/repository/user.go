package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/smart-locker/locker-service/locker/internal/errs"
	"github.com/smart-locker/locker-service/locker/internal/model"
)

var userColumns = []string{"id", "name", "email", "phone", "password_hash", "user_type", "active", "email_verified", "card_id", "created"}

func (r *repository) GetUser(ctx context.Context, id int) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"email": email})
}

func (r *repository) getUser(ctx context.Context, pred sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := r.db.GetContext(ctx, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}
