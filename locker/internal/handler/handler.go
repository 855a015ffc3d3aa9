package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smart-locker/locker-service/locker/internal/errs"
	"github.com/smart-locker/locker-service/locker/internal/model"
	"github.com/smart-locker/locker-service/pkg/auth"
	"github.com/smart-locker/locker-service/pkg/metrics"
	md "github.com/smart-locker/locker-service/pkg/middleware"
	"github.com/smart-locker/locker-service/pkg/validate"
)

type Handler struct {
	bookingSvc BookingService
	authCfg    auth.Config
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func New(bookingSrv BookingService, authCfg auth.Config, m *metrics.Metrics, log *zap.Logger) *Handler {
	return &Handler{
		bookingSvc: bookingSrv,
		authCfg:    authCfg,
		metrics:    m,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	if h.metrics != nil {
		base.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
	}

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/token", h.Token)

	authed := api.Group("", md.JwtAuthentication([]byte(h.authCfg.SigningKey)))

	authed.GET("/items", h.ListItems)
	authed.GET("/items/available", h.ListAvailableItems)
	authed.GET("/items/:id", h.GetItem)
	authed.GET("/cells/available", h.ListFreeCells)

	authed.POST("/requests", h.CreateRequest)
	authed.GET("/requests/my", h.MyRequests)
	authed.GET("/requests/history", h.History)
	authed.POST("/requests/:id/cancel", h.Cancel)
	authed.POST("/requests/:id/return", h.Return)
	authed.POST("/requests/:id/code", h.GenerateCode)
	authed.POST("/requests/:id/pickup", h.Pickup)
	authed.POST("/requests/:id/extend", h.RequestExtension)
	authed.POST("/support", h.Support)

	admin := authed.Group("", md.AdminOnly)
	admin.GET("/requests", h.AllRequests)
	admin.POST("/requests/:id/approve", h.Approve)
	admin.POST("/requests/:id/reject", h.Reject)
	admin.POST("/requests/:id/return-date", h.ChangeReturnDate)
	admin.POST("/requests/sweep", h.RunSweep)
	admin.POST("/cells/:cellId/assign", h.AssignCell)
	admin.POST("/cells/release", h.ReleaseCell)
	admin.GET("/users", h.Users)
	admin.GET("/users/:id", h.GetUser)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps engine sentinels to stable response codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrItemUnavailable),
		errors.Is(err, errs.ErrCellOccupied),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrSweepRunning):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrCodeExpired):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	case errors.Is(err, errs.ErrCodeMismatch),
		errors.Is(err, errs.ErrReturnDateRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, errs.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func identity(c echo.Context) (auth.Identity, error) {
	id, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return id, nil
}

func requestID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	return id, nil
}

func (h *Handler) Token(c echo.Context) error {
	var req model.TokenIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	user, err := h.bookingSvc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	token, err := auth.NewToken([]byte(h.authCfg.SigningKey), auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.UserType,
	}, h.authCfg.TokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, model.TokenOut{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) CreateRequest(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var req model.CreateRequestIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	resp, err := h.bookingSvc.CreateRequest(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) MyRequests(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	views, err := h.bookingSvc.ListMyRequests(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) History(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	views, err := h.bookingSvc.ListHistory(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) AllRequests(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	reqs, err := h.bookingSvc.ListAllRequests(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reqs)
}

func (h *Handler) Approve(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	resp, err := h.bookingSvc.Approve(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Reject(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	var req model.RejectRequestIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.bookingSvc.Reject(c.Request().Context(), actor, id, req.Reason); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) Cancel(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	if err := h.bookingSvc.Cancel(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) Return(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	if err := h.bookingSvc.Return(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) GenerateCode(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	code, err := h.bookingSvc.GenerateCode(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, code)
}

func (h *Handler) Pickup(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	var req model.PickupIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	resp, err := h.bookingSvc.Pickup(c.Request().Context(), actor, id, req.Code)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ChangeReturnDate(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	var req model.ChangeReturnDateIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	resp, err := h.bookingSvc.ChangeReturnDate(c.Request().Context(), actor, id, req.NewDate.Time)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) RequestExtension(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	var req model.ChangeReturnDateIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.bookingSvc.RequestExtension(c.Request().Context(), actor, id, req.NewDate.Time); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) RunSweep(c echo.Context) error {
	report, err := h.bookingSvc.RunDeadlineSweep(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) AssignCell(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	cellID, err := strconv.Atoi(c.Param("cellId"))
	if err != nil || cellID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cell id")
	}
	var req model.AssignCellIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.bookingSvc.AssignCell(c.Request().Context(), actor, cellID, req.ItemID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) ReleaseCell(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var req model.ReleaseCellIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.bookingSvc.ReleaseCell(c.Request().Context(), actor, req.ItemID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) Support(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var req model.SupportIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.bookingSvc.Support(c.Request().Context(), actor, req.Message); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) ListItems(c echo.Context) error {
	items, err := h.bookingSvc.ListItems(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListAvailableItems(c echo.Context) error {
	items, err := h.bookingSvc.ListAvailableItems(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetItem(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return err
	}
	item, err := h.bookingSvc.GetItem(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) ListFreeCells(c echo.Context) error {
	cells, err := h.bookingSvc.ListFreeCells(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cells)
}

func (h *Handler) Users(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	users, err := h.bookingSvc.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}
	user, err := h.bookingSvc.GetUser(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
