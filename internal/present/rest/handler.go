package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/internal/metrics"
	"github.com/totegamma/invoicedash/internal/present/rest/middleware"
	"github.com/totegamma/invoicedash/internal/present/rest/presenter"
	"github.com/totegamma/invoicedash/internal/service"
	"github.com/totegamma/invoicedash/internal/usecase"
)

// SessionCookie controls how the session cookie is written.
type SessionCookie struct {
	MaxAge time.Duration
	Secure bool
}

// InvalidationSource feeds route invalidations to the realtime socket until
// ctx is done.
type InvalidationSource interface {
	Subscribe(ctx context.Context, output chan<- service.Invalidation)
}

type Handler struct {
	invoice   *usecase.InvoiceUsecase
	auth      *usecase.AuthUsecase
	dashboard *usecase.DashboardUsecase
	signal    InvalidationSource
	cookie    SessionCookie
}

func NewHandler(
	invoice *usecase.InvoiceUsecase,
	auth *usecase.AuthUsecase,
	dashboard *usecase.DashboardUsecase,
	signal InvalidationSource,
	cookie SessionCookie,
) *Handler {
	return &Handler{
		invoice:   invoice,
		auth:      auth,
		dashboard: dashboard,
		signal:    signal,
		cookie:    cookie,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealth)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.POST("/login", h.handleLogin)
	e.POST("/dashboard/logout", h.handleLogout)

	e.GET("/dashboard", h.handleOverview)
	e.GET("/dashboard/customers", h.handleCustomers)
	e.GET("/dashboard/invoices", h.handleInvoices)
	e.POST("/dashboard/invoices", h.handleCreateInvoice)
	e.GET("/dashboard/invoices/:id", h.handleEditInvoice)
	e.POST("/dashboard/invoices/:id/edit", h.handleUpdateInvoice)
	e.POST("/dashboard/invoices/:id/delete", h.handleDeleteInvoice)
	e.GET("/dashboard/realtime", h.handleRealtime)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.FormParams()
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid form")
	}

	result, err := h.auth.Authenticate(ctx, form)
	if err != nil {
		metrics.RecordSignIn("error")
		return presenter.InternalError(c, err)
	}
	if !result.OK() {
		metrics.RecordSignIn("rejected")
		return presenter.Unauthorized(c, domain.FormState{Message: result.Message})
	}
	metrics.RecordSignIn("ok")

	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return presenter.SeeOther(c, result.RedirectTo)
}

func (h *Handler) handleLogout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return presenter.SeeOther(c, domain.LoginPath)
}

func (h *Handler) handleOverview(c echo.Context) error {
	ctx := c.Request().Context()

	overview, err := h.dashboard.Overview(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	var user echo.Map
	if claims := middleware.SessionFrom(ctx); claims != nil {
		user = echo.Map{"name": claims.Name, "email": claims.Email}
	}
	return presenter.OK(c, echo.Map{"user": user, "overview": overview})
}

func (h *Handler) handleCustomers(c echo.Context) error {
	customers, err := h.dashboard.Customers(c.Request().Context())
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, customers)
}

func (h *Handler) handleInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	page := 1
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if n, err := strconv.Atoi(pageStr); err == nil {
			page = n
		}
	}

	payload, err := h.dashboard.Invoices(ctx, c.QueryParam("query"), page)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.RawJSON(c, payload)
}

func (h *Handler) handleEditInvoice(c echo.Context) error {
	edit, err := h.dashboard.EditInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "invoice not found")
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, edit)
}

func (h *Handler) handleCreateInvoice(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid form")
	}
	return h.respond(c, "create", h.invoice.Create(c.Request().Context(), form))
}

func (h *Handler) handleUpdateInvoice(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid form")
	}
	return h.respond(c, "update", h.invoice.Update(c.Request().Context(), c.Param("id"), form))
}

func (h *Handler) handleDeleteInvoice(c echo.Context) error {
	return h.respond(c, "delete", h.invoice.Delete(c.Request().Context(), c.Param("id")))
}

// respond maps a mutation outcome onto HTTP. Done comes from the listing
// itself, so the browser goes back there.
func (h *Handler) respond(c echo.Context, op string, outcome usecase.Outcome) error {
	switch o := outcome.(type) {
	case usecase.Redirect:
		metrics.RecordMutation(op, "redirect")
		return presenter.SeeOther(c, o.To)
	case usecase.Done:
		metrics.RecordMutation(op, "done")
		return presenter.SeeOther(c, domain.InvoicesListPath)
	case usecase.Failure:
		if o.State.HasErrors() {
			metrics.RecordMutation(op, "invalid")
			return presenter.Invalid(c, o.State)
		}
		metrics.RecordMutation(op, "failed")
		return presenter.Failed(c, o.State)
	default:
		return presenter.InternalError(c, fmt.Errorf("unexpected outcome %T", outcome))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan service.Invalidation)
	go h.signal.Subscribe(ctx, output)

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			// clients only send heartbeats
			if _, _, err := ws.ReadMessage(); err != nil {
				var wsErr *websocket.CloseError
				if errors.As(err, &wsErr) {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.DebugContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			if err := ws.WriteJSON(event); err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
