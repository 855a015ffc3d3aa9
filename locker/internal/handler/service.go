package handler

import (
	"context"
	"time"

	"github.com/smart-locker/locker-service/locker/internal/model"
	"github.com/smart-locker/locker-service/locker/internal/service"
	"github.com/smart-locker/locker-service/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookingService interface {
	CreateRequest(ctx context.Context, actor auth.Identity, in model.CreateRequestIn) (model.Request, error)
	Approve(ctx context.Context, actor auth.Identity, requestID int) (model.Request, error)
	Reject(ctx context.Context, actor auth.Identity, requestID int, reason string) error
	Cancel(ctx context.Context, actor auth.Identity, requestID int) error
	Return(ctx context.Context, actor auth.Identity, requestID int) error
	GenerateCode(ctx context.Context, actor auth.Identity, requestID int) (model.PickupCode, error)
	Pickup(ctx context.Context, actor auth.Identity, requestID int, code string) (model.Request, error)
	ChangeReturnDate(ctx context.Context, actor auth.Identity, requestID int, newDate time.Time) (model.Request, error)
	RequestExtension(ctx context.Context, actor auth.Identity, requestID int, newDate time.Time) error
	RunDeadlineSweep(ctx context.Context) (service.SweepReport, error)

	AssignCell(ctx context.Context, actor auth.Identity, cellID, itemID int) error
	ReleaseCell(ctx context.Context, actor auth.Identity, itemID int) error

	Support(ctx context.Context, actor auth.Identity, message string) error
	Login(ctx context.Context, email, password string) (model.User, error)

	GetItem(ctx context.Context, id int) (model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListAvailableItems(ctx context.Context) ([]model.Item, error)
	ListFreeCells(ctx context.Context) ([]model.Cell, error)
	ListMyRequests(ctx context.Context, actor auth.Identity) ([]model.RequestView, error)
	ListAllRequests(ctx context.Context, actor auth.Identity) ([]model.Request, error)
	ListHistory(ctx context.Context, actor auth.Identity) ([]model.RequestView, error)
	ListUsers(ctx context.Context, actor auth.Identity) ([]model.User, error)
	GetUser(ctx context.Context, actor auth.Identity, id int) (model.User, error)
}

var _ BookingService = (*service.Service)(nil)
