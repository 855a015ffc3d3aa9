package repository

import (
	"context"
	"time"

	"github.com/smart-locker/locker-service/locker/internal/model"
)

// SweepCandidate is a live request joined with the fields the sweep needs
// for notifications.
type SweepCandidate struct {
	ID                int                 `db:"id"`
	Status            model.RequestStatus `db:"status"`
	ItemID            int                 `db:"item_id"`
	UserID            int                 `db:"user_id"`
	Created           time.Time           `db:"created"`
	PlannedReturnDate time.Time           `db:"planned_return_date"`
	ItemName          string              `db:"item_name"`
	UserName          string              `db:"user_name"`
	Email             string              `db:"email"`
}

const sweepCandidateSelect = `
	select r.id, r.status, r.item_id, r.user_id, r.created, r.planned_return_date,
	       coalesce(i.name, 'Equipment') as item_name,
	       coalesce(u.name, '') as user_name,
	       coalesce(u.email, '') as email
	from requests r
	left join items i on i.id = r.item_id
	left join users u on u.id = r.user_id`

// ListDueSoon returns issued requests whose deadline falls inside the
// reminder window and which have not been reminded yet.
func (r *repository) ListDueSoon(ctx context.Context, now time.Time, window time.Duration) ([]SweepCandidate, error) {
	q := sweepCandidateSelect + `
	where r.status = $1
	  and r.planned_return_date > $2
	  and r.planned_return_date <= $3`
	var out []SweepCandidate
	if err := r.db.SelectContext(ctx, &out, q, model.StatusIssued, now, now.Add(window)); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOverdue returns held requests whose deadline has passed.
func (r *repository) ListOverdue(ctx context.Context, now time.Time) ([]SweepCandidate, error) {
	q := sweepCandidateSelect + `
	where r.status in ($1, $2)
	  and r.planned_return_date <= $3`
	var out []SweepCandidate
	if err := r.db.SelectContext(ctx, &out, q, model.StatusIssued, model.StatusReturnSoon, now); err != nil {
		return nil, err
	}
	return out, nil
}

// ListStalePickups returns awaiting-pickup requests created before cutoff.
func (r *repository) ListStalePickups(ctx context.Context, cutoff time.Time) ([]SweepCandidate, error) {
	q := sweepCandidateSelect + `
	where r.status = $1
	  and r.created < $2`
	var out []SweepCandidate
	if err := r.db.SelectContext(ctx, &out, q, model.StatusAwaitingPickup, cutoff); err != nil {
		return nil, err
	}
	return out, nil
}
