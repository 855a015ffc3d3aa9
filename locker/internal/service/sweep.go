package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/smart-locker/locker-service/locker/internal/errs"
	"github.com/smart-locker/locker-service/locker/internal/model"
	"github.com/smart-locker/locker-service/locker/internal/repository"
)

// SweepReport summarizes one deadline sweep run.
type SweepReport struct {
	Reminded int `json:"reminded"`
	Overdue  int `json:"overdue"`
	Expired  int `json:"expired"`
}

// RunDeadlineSweep walks live requests against their deadlines. Only one
// sweep runs at a time; a second caller gets ErrSweepRunning.
func (s *Service) RunDeadlineSweep(ctx context.Context) (SweepReport, error) {
	if !s.sweepMu.TryLock() {
		return SweepReport{}, errs.ErrSweepRunning
	}
	defer s.sweepMu.Unlock()

	s.metrics.SweepRuns.Inc()
	now := s.clock()
	var report SweepReport

	overdue, err := s.repo.ListOverdue(ctx, now)
	if err != nil {
		return report, err
	}
	for _, c := range overdue {
		if _, err := s.repo.UpdateRequestStatus(ctx, c.ID,
			[]model.RequestStatus{model.StatusIssued, model.StatusReturnSoon}, model.StatusOverdue); err != nil {
			s.log.Error("sweep overdue", zap.Int("request_id", c.ID), zap.Error(err))
			continue
		}
		report.Overdue++
		s.metrics.SweepTransitions.WithLabelValues(string(model.StatusOverdue)).Inc()
		s.notify(ctx, c.Email, "Equipment return deadline passed",
			fmt.Sprintf("Dear %s,\n\nThe return deadline for %q passed on %s.\nPlease return the equipment to the locker as soon as possible.\nIf you are having trouble, reply to this message and we will help.",
				c.UserName, c.ItemName, localDeadline(c.PlannedReturnDate)))
	}

	dueSoon, err := s.repo.ListDueSoon(ctx, now, reminderWindow)
	if err != nil {
		return report, err
	}
	for _, c := range dueSoon {
		if _, err := s.repo.UpdateRequestStatus(ctx, c.ID,
			[]model.RequestStatus{model.StatusIssued}, model.StatusReturnSoon); err != nil {
			s.log.Error("sweep reminder", zap.Int("request_id", c.ID), zap.Error(err))
			continue
		}
		report.Reminded++
		s.metrics.SweepTransitions.WithLabelValues(string(model.StatusReturnSoon)).Inc()
		s.notify(ctx, c.Email, "Equipment return reminder",
			fmt.Sprintf("Dear %s,\n\nThe return deadline for %q is %s.\nPlease return the equipment to the locker before then.",
				c.UserName, c.ItemName, localDeadline(c.PlannedReturnDate)))
	}

	stale, err := s.repo.ListStalePickups(ctx, now.Add(-pickupWindow))
	if err != nil {
		return report, err
	}
	for _, c := range stale {
		if err := s.expirePickup(ctx, c); err != nil {
			s.log.Error("sweep expire", zap.Int("request_id", c.ID), zap.Error(err))
			continue
		}
		report.Expired++
		s.metrics.SweepTransitions.WithLabelValues(string(model.StatusExpired)).Inc()
	}

	s.log.Info("deadline sweep finished",
		zap.Int("reminded", report.Reminded),
		zap.Int("overdue", report.Overdue),
		zap.Int("expired", report.Expired))
	return report, nil
}

func (s *Service) expirePickup(ctx context.Context, c repository.SweepCandidate) error {
	if err := s.repo.ArchiveRequest(ctx, c.ID,
		[]model.RequestStatus{model.StatusAwaitingPickup}, model.StatusExpired, nil); err != nil {
		return err
	}
	s.notify(ctx, c.Email, "Booking cancelled",
		fmt.Sprintf("Hello!\n\nYour booking for %q was cancelled automatically because it was not collected in time.\nYou can submit a new booking in the app.",
			c.ItemName))
	return nil
}

// RunSweeper runs the deadline sweep on the given interval until ctx ends.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := s.RunDeadlineSweep(ctx); err != nil && err != errs.ErrSweepRunning {
				s.log.Error("deadline sweep", zap.Error(err))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
