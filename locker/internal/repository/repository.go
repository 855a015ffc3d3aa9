package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/smart-locker/locker-service/locker/internal/model"
)

type Repository interface {
	GetItem(ctx context.Context, id int) (model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListAvailableItems(ctx context.Context) ([]model.Item, error)

	ListFreeCells(ctx context.Context) ([]model.Cell, error)
	AssignCell(ctx context.Context, itemID, cellID int) error
	ReleaseCell(ctx context.Context, itemID int) error

	GetUser(ctx context.Context, id int) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	CreateRequest(ctx context.Context, req model.Request) (model.Request, error)
	GetRequest(ctx context.Context, id int) (model.Request, error)
	ListUserRequests(ctx context.Context, userID int) ([]model.RequestView, error)
	ListAllRequests(ctx context.Context) ([]model.Request, error)
	ListUserArchive(ctx context.Context, userID int) ([]model.RequestView, error)
	UpdateRequestStatus(ctx context.Context, id int, from []model.RequestStatus, to model.RequestStatus) (model.Request, error)
	MarkIssued(ctx context.Context, id int, takenAt time.Time) (model.Request, error)
	SetPlannedReturnDate(ctx context.Context, id int, date time.Time) (model.Request, error)
	ArchiveRequest(ctx context.Context, id int, from []model.RequestStatus, final model.RequestStatus, actualReturn *time.Time) error

	ListDueSoon(ctx context.Context, now time.Time, window time.Duration) ([]SweepCandidate, error)
	ListOverdue(ctx context.Context, now time.Time) ([]SweepCandidate, error)
	ListStalePickups(ctx context.Context, cutoff time.Time) ([]SweepCandidate, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	itemsTableName    = `items`
	cellsTableName    = `cells`
	usersTableName    = `users`
	requestsTableName = `requests`
	archiveTableName  = `archived_requests`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
