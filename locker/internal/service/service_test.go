package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smart-locker/locker-service/locker/internal/codes"
	"github.com/smart-locker/locker-service/locker/internal/errs"
	"github.com/smart-locker/locker-service/locker/internal/model"
	"github.com/smart-locker/locker-service/locker/internal/repository"
	"github.com/smart-locker/locker-service/locker/internal/service"
	"github.com/smart-locker/locker-service/pkg/auth"
	"github.com/smart-locker/locker-service/pkg/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRepo struct {
	mu       sync.Mutex
	items    map[int]model.Item
	cells    map[int]model.Cell
	users    map[int]model.User
	requests map[int]model.Request
	archive  map[int]model.ArchivedRequest
	nextID   int

	// test hooks, run outside the lock
	onListOverdue  func()
	afterListStale func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:    make(map[int]model.Item),
		cells:    make(map[int]model.Cell),
		users:    make(map[int]model.User),
		requests: make(map[int]model.Request),
		archive:  make(map[int]model.ArchivedRequest),
		nextID:   1,
	}
}

func (f *fakeRepo) GetItem(_ context.Context, id int) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return model.Item{}, errs.ErrNotFound
	}
	return item, nil
}

func (f *fakeRepo) ListItems(context.Context) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Item, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) ListAvailableItems(ctx context.Context) ([]model.Item, error) {
	all, _ := f.ListItems(ctx)
	var out []model.Item
	for _, item := range all {
		if item.Available && item.Status == model.ItemStatusFree {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListFreeCells(context.Context) ([]model.Cell, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Cell
	for _, cell := range f.cells {
		if cell.IsFree {
			out = append(out, cell)
		}
	}
	return out, nil
}

func (f *fakeRepo) AssignCell(_ context.Context, itemID, cellID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cell, ok := f.cells[cellID]
	if !ok {
		return errs.ErrNotFound
	}
	if !cell.IsFree {
		return errs.ErrCellOccupied
	}
	item, ok := f.items[itemID]
	if !ok {
		return errs.ErrNotFound
	}
	if item.CellID != nil {
		prev := f.cells[*item.CellID]
		prev.IsFree = true
		f.cells[*item.CellID] = prev
	}
	cell.IsFree = false
	f.cells[cellID] = cell
	id := cellID
	item.CellID = &id
	f.items[itemID] = item
	return nil
}

func (f *fakeRepo) ReleaseCell(_ context.Context, itemID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releaseCellLocked(itemID)
}

func (f *fakeRepo) releaseCellLocked(itemID int) error {
	item, ok := f.items[itemID]
	if !ok || item.CellID == nil {
		return nil
	}
	cell := f.cells[*item.CellID]
	cell.IsFree = true
	f.cells[*item.CellID] = cell
	item.CellID = nil
	f.items[itemID] = item
	return nil
}

func (f *fakeRepo) GetUser(_ context.Context, id int) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return user, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (f *fakeRepo) ListUsers(context.Context) ([]model.User, error) { return nil, nil }

func (f *fakeRepo) CreateRequest(_ context.Context, req model.Request) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[req.ItemID]
	if !ok {
		return model.Request{}, errs.ErrNotFound
	}
	if !item.Available {
		return model.Request{}, errs.ErrItemUnavailable
	}
	item.Status = model.ItemStatusReserved
	item.Available = false
	f.items[req.ItemID] = item

	req.ID = f.nextID
	f.nextID++
	req.RequestUID = uuid.New().String()
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRepo) GetRequest(_ context.Context, id int) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return model.Request{}, errs.ErrNotFound
	}
	return req, nil
}

func (f *fakeRepo) ListUserRequests(context.Context, int) ([]model.RequestView, error) {
	return nil, nil
}

func (f *fakeRepo) ListAllRequests(context.Context) ([]model.Request, error) { return nil, nil }

func (f *fakeRepo) ListUserArchive(context.Context, int) ([]model.RequestView, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateRequestStatus(_ context.Context, id int, from []model.RequestStatus, to model.RequestStatus) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return model.Request{}, errs.ErrNotFound
	}
	for _, st := range from {
		if req.Status == st {
			req.Status = to
			f.requests[id] = req
			return req, nil
		}
	}
	return model.Request{}, errs.ErrInvalidState
}

func (f *fakeRepo) MarkIssued(_ context.Context, id int, takenAt time.Time) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return model.Request{}, errs.ErrNotFound
	}
	if req.Status != model.StatusAwaitingPickup {
		return model.Request{}, errs.ErrInvalidState
	}
	req.Status = model.StatusIssued
	req.TakenDate = &takenAt
	f.requests[id] = req

	item := f.items[req.ItemID]
	item.Status = model.ItemStatusIssued
	f.items[req.ItemID] = item
	return req, nil
}

func (f *fakeRepo) SetPlannedReturnDate(_ context.Context, id int, date time.Time) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return model.Request{}, errs.ErrNotFound
	}
	req.PlannedReturnDate = date
	f.requests[id] = req
	return req, nil
}

func (f *fakeRepo) ArchiveRequest(_ context.Context, id int, from []model.RequestStatus, final model.RequestStatus, actualReturn *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return errs.ErrNotFound
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
	delete(f.requests, id)
	f.archive[id] = model.ArchivedRequest{
		ID:                req.ID,
		RequestUID:        req.RequestUID,
		Status:            final,
		ItemID:            req.ItemID,
		UserID:            req.UserID,
		IssuedBy:          req.IssuedBy,
		Comment:           req.Comment,
		Created:           req.Created,
		TakenDate:         req.TakenDate,
		PlannedReturnDate: req.PlannedReturnDate,
		ActualReturnDate:  actualReturn,
	}
	_ = f.releaseCellLocked(req.ItemID)
	item := f.items[req.ItemID]
	item.Status = model.ItemStatusFree
	item.Available = true
	f.items[req.ItemID] = item
	return nil
}

func (f *fakeRepo) candidateLocked(req model.Request) repository.SweepCandidate {
	item := f.items[req.ItemID]
	user := f.users[req.UserID]
	return repository.SweepCandidate{
		ID:                req.ID,
		Status:            req.Status,
		ItemID:            req.ItemID,
		UserID:            req.UserID,
		Created:           req.Created,
		PlannedReturnDate: req.PlannedReturnDate,
		ItemName:          item.Name,
		UserName:          user.Name,
		Email:             user.Email,
	}
}

func (f *fakeRepo) ListDueSoon(_ context.Context, now time.Time, window time.Duration) ([]repository.SweepCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.SweepCandidate
	for _, req := range f.requests {
		if req.Status == model.StatusIssued &&
			req.PlannedReturnDate.After(now) && !req.PlannedReturnDate.After(now.Add(window)) {
			out = append(out, f.candidateLocked(req))
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOverdue(_ context.Context, now time.Time) ([]repository.SweepCandidate, error) {
	if f.onListOverdue != nil {
		f.onListOverdue()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.SweepCandidate
	for _, req := range f.requests {
		if (req.Status == model.StatusIssued || req.Status == model.StatusReturnSoon) &&
			!req.PlannedReturnDate.After(now) {
			out = append(out, f.candidateLocked(req))
		}
	}
	return out, nil
}

func (f *fakeRepo) ListStalePickups(_ context.Context, cutoff time.Time) ([]repository.SweepCandidate, error) {
	f.mu.Lock()
	var out []repository.SweepCandidate
	for _, req := range f.requests {
		if req.Status == model.StatusAwaitingPickup && req.Created.Before(cutoff) {
			out = append(out, f.candidateLocked(req))
		}
	}
	f.mu.Unlock()
	if f.afterListStale != nil {
		f.afterListStale()
	}
	return out, nil
}

type issuedCode struct {
	code   string
	expiry time.Time
}

type fakeCodes struct {
	mu    sync.Mutex
	codes map[int]issuedCode
	count map[int]int
	nowFn func() time.Time
}

func newFakeCodes(nowFn func() time.Time) *fakeCodes {
	return &fakeCodes{
		codes: make(map[int]issuedCode),
		count: make(map[int]int),
		nowFn: nowFn,
	}
}

func (f *fakeCodes) Save(_ context.Context, requestID int, code string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[requestID] = issuedCode{code: code, expiry: expiry}
	return nil
}

func (f *fakeCodes) Redeem(_ context.Context, requestID int, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	issued, ok := f.codes[requestID]
	if !ok || f.nowFn().After(issued.expiry) {
		return errs.ErrCodeExpired
	}
	if issued.code != code {
		return errs.ErrCodeMismatch
	}
	delete(f.codes, requestID)
	return nil
}

func (f *fakeCodes) Allow(_ context.Context, requestID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count[requestID]++
	if f.count[requestID] > 5 {
		return errs.ErrRateLimited
	}
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) all() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Notification(nil), f.sent...)
}

type env struct {
	repo     *fakeRepo
	codes    *fakeCodes
	notifier *fakeNotifier
	svc      *service.Service
	now      time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		repo:     newFakeRepo(),
		notifier: &fakeNotifier{},
		now:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	nowFn := func() time.Time { return e.now }
	e.codes = newFakeCodes(nowFn)
	e.svc = service.NewService(e.repo, e.codes, e.notifier, metrics.New(), "staff@example.edu", zap.NewNop()).
		WithClock(nowFn)

	e.repo.users[5] = model.User{ID: 5, Name: "Sam", Email: "sam@example.edu"}
	e.repo.items[3] = model.Item{
		ID: 3, InvKey: "INV-003", Name: "Oscilloscope",
		Status: model.ItemStatusFree, Available: true, AccessLevel: 1,
	}
	e.repo.items[9] = model.Item{
		ID: 9, InvKey: "INV-009", Name: "VR headset",
		Status: model.ItemStatusFree, Available: true, AccessLevel: 2,
	}
	e.repo.cells[1] = model.Cell{ID: 1, Size: "M", Location: "Main hall, column A", IsFree: true}
	e.repo.cells[2] = model.Cell{ID: 2, Size: "M", Location: "Main hall, column B", IsFree: true}
	return e
}

var (
	student = auth.Identity{UserID: 5, Email: "sam@example.edu", Role: auth.RoleStudent}
	admin   = auth.Identity{UserID: 1, Email: "staff@example.edu", Role: auth.RoleAdmin}
)

func TestService_CreateRequest_SelfService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)
	require.Equal(t, model.StatusAwaitingPickup, req.Status)
	require.Equal(t, time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC), req.PlannedReturnDate)
	require.Equal(t, "Self-service booking", req.Comment)

	item, _ := e.repo.GetItem(ctx, 3)
	require.Equal(t, model.ItemStatusReserved, item.Status)
	require.False(t, item.Available)

	// no approval needed, so no staff notification
	require.Empty(t, e.notifier.all())

	// the item is now held, a second booking must fail
	_, err = e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.ErrorIs(t, err, errs.ErrItemUnavailable)
}

func TestService_CreateRequest_NeedsApproval(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 9})
	require.ErrorIs(t, err, errs.ErrReturnDateRequired)

	planned := model.Date{Time: time.Date(2026, 9, 10, 12, 30, 0, 0, time.UTC)}
	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{
		ItemID:            9,
		Comment:           "course project",
		PlannedReturnDate: &planned,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusAwaitingApproval, req.Status)
	require.Equal(t, time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC), req.PlannedReturnDate)

	sent := e.notifier.all()
	require.Len(t, sent, 1)
	require.Equal(t, "staff@example.edu", sent[0].To)
	require.Equal(t, "New booking request", sent[0].Subject)
}

func TestService_CreateRequest_NotificationFailureIsSwallowed(t *testing.T) {
	e := newEnv(t)
	e.notifier.err = context.DeadlineExceeded
	ctx := context.Background()

	planned := model.Date{Time: time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)}
	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{
		ItemID:            9,
		PlannedReturnDate: &planned,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusAwaitingApproval, req.Status)
}

func TestService_ApproveReject(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	planned := model.Date{Time: time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)}
	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{
		ItemID:            9,
		PlannedReturnDate: &planned,
	})
	require.NoError(t, err)

	_, err = e.svc.Approve(ctx, student, req.ID)
	require.ErrorIs(t, err, errs.ErrForbidden)

	approved, err := e.svc.Approve(ctx, admin, req.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusAwaitingPickup, approved.Status)

	// the approval email states the actual pickup window
	sent := e.notifier.all()
	require.Len(t, sent, 2)
	require.Equal(t, "Booking approved", sent[1].Subject)
	require.True(t, strings.Contains(sent[1].Body, "48 hours"))

	// approving twice is a state conflict
	_, err = e.svc.Approve(ctx, admin, req.ID)
	require.ErrorIs(t, err, errs.ErrInvalidState)

	// reject an awaiting-pickup request, item is released
	require.NoError(t, e.svc.Reject(ctx, admin, req.ID, "no inventory"))
	_, err = e.repo.GetRequest(ctx, req.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Equal(t, model.StatusRejected, e.repo.archive[req.ID].Status)

	item, _ := e.repo.GetItem(ctx, 9)
	require.True(t, item.Available)
	require.Equal(t, model.ItemStatusFree, item.Status)
}

func TestService_Cancel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)

	other := auth.Identity{UserID: 99, Role: auth.RoleStudent}
	require.ErrorIs(t, e.svc.Cancel(ctx, other, req.ID), errs.ErrForbidden)

	require.NoError(t, e.svc.Cancel(ctx, student, req.ID))
	require.Equal(t, model.StatusCancelled, e.repo.archive[req.ID].Status)

	item, _ := e.repo.GetItem(ctx, 3)
	require.True(t, item.Available)
}

func TestService_Cancel_HeldItem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)
	code, err := e.svc.GenerateCode(ctx, student, req.ID)
	require.NoError(t, err)
	_, err = e.svc.Pickup(ctx, student, req.ID, code.Code)
	require.NoError(t, err)

	require.ErrorIs(t, e.svc.Cancel(ctx, student, req.ID), errs.ErrInvalidState)
}

func TestService_PickupCodeLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)

	// only the owner can ask for a code
	_, err = e.svc.GenerateCode(ctx, auth.Identity{UserID: 99}, req.ID)
	require.ErrorIs(t, err, errs.ErrForbidden)

	code, err := e.svc.GenerateCode(ctx, student, req.ID)
	require.NoError(t, err)
	require.Len(t, code.Code, 6)
	require.Equal(t, e.now.Add(codes.TTL), code.ExpiresAt)

	// wrong code is rejected and the right one stays redeemable
	_, err = e.svc.Pickup(ctx, student, req.ID, "000000")
	require.ErrorIs(t, err, errs.ErrCodeMismatch)

	issued, err := e.svc.Pickup(ctx, student, req.ID, code.Code)
	require.NoError(t, err)
	require.Equal(t, model.StatusIssued, issued.Status)
	require.NotNil(t, issued.TakenDate)

	// a code is single use
	_, err = e.svc.Pickup(ctx, student, req.ID, code.Code)
	require.ErrorIs(t, err, errs.ErrCodeExpired)
}

func TestService_PickupCodeExpiry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)
	code, err := e.svc.GenerateCode(ctx, student, req.ID)
	require.NoError(t, err)

	// one second before expiry the code still works
	e.now = code.ExpiresAt.Add(-time.Second)
	_, err = e.svc.Pickup(ctx, student, req.ID, code.Code)
	require.NoError(t, err)

	// a fresh booking, but the code is redeemed after expiry
	req2, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 9, PlannedReturnDate: &model.Date{Time: e.now.Add(72 * time.Hour)}})
	require.NoError(t, err)
	_, err = e.svc.Approve(ctx, admin, req2.ID)
	require.NoError(t, err)
	code2, err := e.svc.GenerateCode(ctx, student, req2.ID)
	require.NoError(t, err)

	e.now = code2.ExpiresAt.Add(time.Second)
	_, err = e.svc.Pickup(ctx, student, req2.ID, code2.Code)
	require.ErrorIs(t, err, errs.ErrCodeExpired)
}

func TestService_GenerateCode_RateLimited(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = e.svc.GenerateCode(ctx, student, req.ID)
		require.NoError(t, err)
	}
	_, err = e.svc.GenerateCode(ctx, student, req.ID)
	require.ErrorIs(t, err, errs.ErrRateLimited)
}

func TestService_Return(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)

	// nothing to return before pickup
	require.ErrorIs(t, e.svc.Return(ctx, student, req.ID), errs.ErrInvalidState)

	code, err := e.svc.GenerateCode(ctx, student, req.ID)
	require.NoError(t, err)
	_, err = e.svc.Pickup(ctx, student, req.ID, code.Code)
	require.NoError(t, err)

	require.NoError(t, e.svc.Return(ctx, student, req.ID))
	arch := e.repo.archive[req.ID]
	require.Equal(t, model.StatusReturned, arch.Status)
	require.NotNil(t, arch.ActualReturnDate)

	item, _ := e.repo.GetItem(ctx, 3)
	require.True(t, item.Available)
	require.Equal(t, model.ItemStatusFree, item.Status)
}

func TestService_AssignReleaseCell(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.ErrorIs(t, e.svc.AssignCell(ctx, student, 1, 3), errs.ErrForbidden)

	require.NoError(t, e.svc.AssignCell(ctx, admin, 1, 3))
	item, _ := e.repo.GetItem(ctx, 3)
	require.NotNil(t, item.CellID)
	require.Equal(t, 1, *item.CellID)
	require.False(t, e.repo.cells[1].IsFree)

	// an occupied cell cannot take a second item
	require.ErrorIs(t, e.svc.AssignCell(ctx, admin, 1, 9), errs.ErrCellOccupied)

	// moving the item to another cell frees the previous one
	require.NoError(t, e.svc.AssignCell(ctx, admin, 2, 3))
	item, _ = e.repo.GetItem(ctx, 3)
	require.Equal(t, 2, *item.CellID)
	require.True(t, e.repo.cells[1].IsFree)
	require.False(t, e.repo.cells[2].IsFree)

	// release is idempotent
	require.NoError(t, e.svc.ReleaseCell(ctx, admin, 3))
	item, _ = e.repo.GetItem(ctx, 3)
	require.Nil(t, item.CellID)
	require.True(t, e.repo.cells[2].IsFree)
	require.NoError(t, e.svc.ReleaseCell(ctx, admin, 3))

	// releasing an item that never had a cell is a no-op
	require.NoError(t, e.svc.ReleaseCell(ctx, admin, 9))
}

func TestService_RunDeadlineSweep(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	base := e.now
	mk := func(itemID int, status model.RequestStatus, created, planned time.Time) int {
		id := e.repo.nextID
		e.repo.nextID++
		e.repo.requests[id] = model.Request{
			ID: id, Status: status, ItemID: itemID, UserID: 5,
			Created: created, PlannedReturnDate: planned,
		}
		return id
	}

	dueSoonID := mk(3, model.StatusIssued, base.Add(-48*time.Hour), base.Add(12*time.Hour))
	overdueID := mk(9, model.StatusReturnSoon, base.Add(-96*time.Hour), base.Add(-time.Hour))
	staleID := mk(3, model.StatusAwaitingPickup, base.Add(-49*time.Hour), base.Add(24*time.Hour))
	untouchedID := mk(9, model.StatusIssued, base.Add(-time.Hour), base.Add(90*time.Hour))

	report, err := e.svc.RunDeadlineSweep(ctx)
	require.NoError(t, err)
	require.Equal(t, service.SweepReport{Reminded: 1, Overdue: 1, Expired: 1}, report)

	require.Equal(t, model.StatusReturnSoon, e.repo.requests[dueSoonID].Status)
	require.Equal(t, model.StatusOverdue, e.repo.requests[overdueID].Status)
	require.Equal(t, model.StatusIssued, e.repo.requests[untouchedID].Status)
	require.Equal(t, model.StatusExpired, e.repo.archive[staleID].Status)

	subjects := make([]string, 0, 3)
	for _, n := range e.notifier.all() {
		subjects = append(subjects, n.Subject)
	}
	require.ElementsMatch(t, []string{
		"Equipment return reminder",
		"Equipment return deadline passed",
		"Booking cancelled",
	}, subjects)

	// a second run has nothing left to do
	report, err = e.svc.RunDeadlineSweep(ctx)
	require.NoError(t, err)
	require.Equal(t, service.SweepReport{}, report)
}

func TestService_Sweep_ExpirySkipsConcurrentPickup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// a stale awaiting-pickup booking from two days ago
	base := e.now
	e.now = base.Add(-49 * time.Hour)
	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)
	e.now = base

	// the owner redeems a code after the sweep listed the booking as stale
	// but before it archives; the expiry must lose
	e.repo.afterListStale = func() {
		_, err := e.repo.MarkIssued(ctx, req.ID, base)
		require.NoError(t, err)
	}

	report, err := e.svc.RunDeadlineSweep(ctx)
	require.NoError(t, err)
	require.Zero(t, report.Expired)

	got, err := e.repo.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusIssued, got.Status)

	// the item stays out with the user, not restored to the shelf
	item, _ := e.repo.GetItem(ctx, 3)
	require.False(t, item.Available)
	require.Equal(t, model.ItemStatusIssued, item.Status)
}

func TestService_RunDeadlineSweep_SingleFlight(t *testing.T) {
	e := newEnv(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	e.repo.onListOverdue = func() {
		close(entered)
		<-release
	}

	done := make(chan error, 1)
	go func() {
		_, err := e.svc.RunDeadlineSweep(context.Background())
		done <- err
	}()

	<-entered
	_, err := e.svc.RunDeadlineSweep(context.Background())
	require.ErrorIs(t, err, errs.ErrSweepRunning)

	close(release)
	require.NoError(t, <-done)

	e.repo.onListOverdue = nil
	_, err = e.svc.RunDeadlineSweep(context.Background())
	require.NoError(t, err)
}

func TestService_Login(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := e.repo.users[5]
	user.PasswordHash = string(hash)
	e.repo.users[5] = user

	got, err := e.svc.Login(ctx, "sam@example.edu", "secret")
	require.NoError(t, err)
	require.Equal(t, 5, got.ID)

	_, err = e.svc.Login(ctx, "sam@example.edu", "wrong")
	require.ErrorIs(t, err, errs.ErrBadCredentials)

	_, err = e.svc.Login(ctx, "nobody@example.edu", "secret")
	require.ErrorIs(t, err, errs.ErrBadCredentials)
}

func TestService_ChangeReturnDate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.svc.CreateRequest(ctx, student, model.CreateRequestIn{ItemID: 3})
	require.NoError(t, err)

	_, err = e.svc.ChangeReturnDate(ctx, student, req.ID, e.now.Add(7*24*time.Hour))
	require.ErrorIs(t, err, errs.ErrForbidden)

	updated, err := e.svc.ChangeReturnDate(ctx, admin, req.ID, time.Date(2026, 9, 20, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC), updated.PlannedReturnDate)

	sent := e.notifier.all()
	require.Len(t, sent, 1)
	require.Equal(t, "Return deadline changed", sent[0].Subject)
	require.Equal(t, "sam@example.edu", sent[0].To)
}
