package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smart-locker/locker-service/locker/internal/codes"
	"github.com/smart-locker/locker-service/locker/internal/errs"
	"github.com/smart-locker/locker-service/locker/internal/model"
	"github.com/smart-locker/locker-service/locker/internal/repository"
	"github.com/smart-locker/locker-service/pkg/auth"
	"github.com/smart-locker/locker-service/pkg/metrics"
)

const (
	// items with this access level are booked without admin approval
	selfServiceLevel = 1

	// deadlines are normalized to the same-day cutoff hour, UTC
	returnCutoffHour = 18
	selfServiceGrace = 3 * 24 * time.Hour

	pickupWindow   = 48 * time.Hour
	reminderWindow = 24 * time.Hour

	// fixed campus-local offset used for deadline display
	localOffset = 3 * time.Hour

	defaultComment = "Self-service booking"
)

// Service is the booking lifecycle engine. It exclusively owns transitions
// of item status/availability, cell occupancy and request status.
type Service struct {
	log        *zap.Logger
	repo       repository.Repository
	codes      codes.Store
	notifier   Notifier
	metrics    *metrics.Metrics
	adminEmail string

	nowFn   func() time.Time
	sweepMu sync.Mutex
}

func NewService(repo repository.Repository, codeStore codes.Store, notifier Notifier, m *metrics.Metrics, adminEmail string, log *zap.Logger) *Service {
	return &Service{
		log:        log,
		repo:       repo,
		codes:      codeStore,
		notifier:   notifier,
		metrics:    m,
		adminEmail: adminEmail,
		nowFn:      time.Now,
	}
}

// WithClock overrides the engine's time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.nowFn = now
	return s
}

func (s *Service) clock() time.Time {
	return s.nowFn().UTC()
}

// cutoff normalizes a deadline to the cutoff hour of its day.
func cutoff(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), returnCutoffHour, 0, 0, 0, time.UTC)
}

func localDeadline(t time.Time) string {
	return t.Add(localOffset).Format("02.01.2006 15:04")
}

// CreateRequest books an available item for the caller. Self-service items
// go straight to awaiting-pickup with a default deadline; the rest wait for
// admin approval.
func (s *Service) CreateRequest(ctx context.Context, actor auth.Identity, in model.CreateRequestIn) (model.Request, error) {
	item, err := s.repo.GetItem(ctx, in.ItemID)
	if err != nil {
		return model.Request{}, err
	}
	if !item.Available {
		return model.Request{}, errs.ErrItemUnavailable
	}

	now := s.clock()
	status := model.StatusAwaitingApproval
	var planned time.Time
	if item.AccessLevel == selfServiceLevel {
		status = model.StatusAwaitingPickup
		planned = cutoff(now).Add(selfServiceGrace)
	} else {
		if in.PlannedReturnDate == nil {
			return model.Request{}, errs.ErrReturnDateRequired
		}
		planned = cutoff(in.PlannedReturnDate.Time)
	}

	comment := in.Comment
	if comment == "" {
		comment = defaultComment
	}

	req, err := s.repo.CreateRequest(ctx, model.Request{
		Status:            status,
		ItemID:            item.ID,
		UserID:            actor.UserID,
		IssuedBy:          actor.UserID,
		Comment:           comment,
		Created:           now,
		PlannedReturnDate: planned,
	})
	if err != nil {
		return model.Request{}, err
	}

	if status == model.StatusAwaitingApproval {
		s.notify(ctx, s.adminEmail, "New booking request",
			fmt.Sprintf("A booking request for %q was submitted by %s.\nReason: %s\nPlease approve or reject it in the admin panel.",
				item.Name, actor.Email, comment))
	}
	return req, nil
}

// Approve moves an awaiting-approval request to awaiting-pickup.
func (s *Service) Approve(ctx context.Context, actor auth.Identity, requestID int) (model.Request, error) {
	if !actor.IsAdmin() {
		return model.Request{}, errs.ErrForbidden
	}
	req, err := s.repo.UpdateRequestStatus(ctx, requestID,
		[]model.RequestStatus{model.StatusAwaitingApproval}, model.StatusAwaitingPickup)
	if err != nil {
		return model.Request{}, err
	}
	if user, err := s.repo.GetUser(ctx, req.UserID); err == nil {
		s.notify(ctx, user.Email, "Booking approved",
			"Hello!\n\nYour equipment booking was approved.\n"+
				"You can pick the equipment up within the next 48 hours.\n"+
				"Use the code from the app at the locker and bring your campus pass.")
	}
	return req, nil
}

// Reject archives an unapproved request and restores the item.
func (s *Service) Reject(ctx context.Context, actor auth.Identity, requestID int, reason string) error {
	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != model.StatusAwaitingApproval && req.Status != model.StatusAwaitingPickup {
		return errs.ErrInvalidState
	}
	if err := s.repo.ArchiveRequest(ctx, requestID,
		[]model.RequestStatus{model.StatusAwaitingApproval, model.StatusAwaitingPickup},
		model.StatusRejected, nil); err != nil {
		return err
	}

	body := "Hello!\n\nYour equipment booking request was rejected."
	if reason != "" {
		body += "\nReason: " + reason
	}
	if user, err := s.repo.GetUser(ctx, req.UserID); err == nil {
		s.notify(ctx, user.Email, "Booking rejected", body)
	}
	return nil
}

// Cancel lets the owner withdraw a request before pickup.
func (s *Service) Cancel(ctx context.Context, actor auth.Identity, requestID int) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.UserID != actor.UserID {
		return errs.ErrForbidden
	}
	if req.Status.Held() {
		return errs.ErrInvalidState
	}
	return s.repo.ArchiveRequest(ctx, requestID,
		[]model.RequestStatus{model.StatusCreated, model.StatusAwaitingApproval, model.StatusAwaitingPickup},
		model.StatusCancelled, nil)
}

// GenerateCode issues a one-time pickup code for the owner. A repeated call
// overwrites the previous code; generation is rate limited per request.
func (s *Service) GenerateCode(ctx context.Context, actor auth.Identity, requestID int) (model.PickupCode, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return model.PickupCode{}, err
	}
	if req.UserID != actor.UserID {
		return model.PickupCode{}, errs.ErrForbidden
	}
	if req.Status != model.StatusAwaitingPickup {
		return model.PickupCode{}, errs.ErrInvalidState
	}
	if err := s.codes.Allow(ctx, requestID); err != nil {
		return model.PickupCode{}, err
	}
	code, expiry := codes.Generate(s.clock())
	if err := s.codes.Save(ctx, requestID, code, expiry); err != nil {
		return model.PickupCode{}, err
	}
	return model.PickupCode{Code: code, ExpiresAt: expiry}, nil
}

// Pickup redeems a code at the locker and hands the item out.
func (s *Service) Pickup(ctx context.Context, actor auth.Identity, requestID int, code string) (model.Request, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return model.Request{}, err
	}
	if req.UserID != actor.UserID {
		return model.Request{}, errs.ErrForbidden
	}
	if err := s.codes.Redeem(ctx, requestID, code); err != nil {
		return model.Request{}, err
	}
	return s.repo.MarkIssued(ctx, requestID, s.clock())
}

// Return records the item back in its cell and archives the request.
func (s *Service) Return(ctx context.Context, actor auth.Identity, requestID int) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.UserID != actor.UserID {
		return errs.ErrForbidden
	}
	if !req.Status.Held() {
		return errs.ErrInvalidState
	}
	now := s.clock()
	return s.repo.ArchiveRequest(ctx, requestID,
		[]model.RequestStatus{model.StatusIssued, model.StatusReturnSoon, model.StatusOverdue},
		model.StatusReturned, &now)
}

// ChangeReturnDate lets an admin move the deadline.
func (s *Service) ChangeReturnDate(ctx context.Context, actor auth.Identity, requestID int, newDate time.Time) (model.Request, error) {
	if !actor.IsAdmin() {
		return model.Request{}, errs.ErrForbidden
	}
	req, err := s.repo.SetPlannedReturnDate(ctx, requestID, cutoff(newDate))
	if err != nil {
		return model.Request{}, err
	}
	item, _ := s.repo.GetItem(ctx, req.ItemID)
	if user, err := s.repo.GetUser(ctx, req.UserID); err == nil {
		s.notify(ctx, user.Email, "Return deadline changed",
			fmt.Sprintf("Hello, %s!\n\nThe return deadline for %q was changed by an administrator.\nNew deadline: %s.",
				user.Name, item.Name, localDeadline(req.PlannedReturnDate)))
	}
	return req, nil
}

// RequestExtension forwards an owner's extension request to the staff inbox.
func (s *Service) RequestExtension(ctx context.Context, actor auth.Identity, requestID int, newDate time.Time) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.UserID != actor.UserID {
		return errs.ErrForbidden
	}
	item, _ := s.repo.GetItem(ctx, req.ItemID)
	s.notify(ctx, s.adminEmail, "Return extension requested",
		fmt.Sprintf("Request #%d for %q: %s asks to extend the return deadline to %s.\nCurrent deadline: %s.\nPlease confirm or decline in the admin panel.",
			req.ID, item.Name, actor.Email, newDate.Format("02.01.2006"), localDeadline(req.PlannedReturnDate)))
	return nil
}

// Support forwards a user message to the staff inbox.
func (s *Service) Support(ctx context.Context, actor auth.Identity, message string) error {
	s.notify(ctx, s.adminEmail, "Support request from "+actor.Email, message)
	return nil
}

// AssignCell places an item into a storage cell.
func (s *Service) AssignCell(ctx context.Context, actor auth.Identity, cellID, itemID int) error {
	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}
	return s.repo.AssignCell(ctx, itemID, cellID)
}

// ReleaseCell frees an item's cell. Idempotent.
func (s *Service) ReleaseCell(ctx context.Context, actor auth.Identity, itemID int) error {
	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}
	return s.repo.ReleaseCell(ctx, itemID)
}

// Login checks the credentials and returns the user on success.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if err == errs.ErrNotFound {
			return model.User{}, errs.ErrBadCredentials
		}
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, errs.ErrBadCredentials
	}
	return user, nil
}

func (s *Service) GetItem(ctx context.Context, id int) (model.Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) ListItems(ctx context.Context) ([]model.Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) ListAvailableItems(ctx context.Context) ([]model.Item, error) {
	return s.repo.ListAvailableItems(ctx)
}

func (s *Service) ListFreeCells(ctx context.Context) ([]model.Cell, error) {
	return s.repo.ListFreeCells(ctx)
}

func (s *Service) ListMyRequests(ctx context.Context, actor auth.Identity) ([]model.RequestView, error) {
	return s.repo.ListUserRequests(ctx, actor.UserID)
}

func (s *Service) ListAllRequests(ctx context.Context, actor auth.Identity) ([]model.Request, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return s.repo.ListAllRequests(ctx)
}

func (s *Service) ListHistory(ctx context.Context, actor auth.Identity) ([]model.RequestView, error) {
	return s.repo.ListUserArchive(ctx, actor.UserID)
}

func (s *Service) ListUsers(ctx context.Context, actor auth.Identity) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return s.repo.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, actor auth.Identity, id int) (model.User, error) {
	if !actor.IsAdmin() {
		return model.User{}, errs.ErrForbidden
	}
	return s.repo.GetUser(ctx, id)
}
