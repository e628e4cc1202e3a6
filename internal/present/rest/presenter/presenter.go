package presenter

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/invoicedash/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// RawJSON writes an already rendered JSON body.
func RawJSON(c echo.Context, payload []byte) error {
	return c.JSONBlob(http.StatusOK, payload)
}

// SeeOther navigates after a POST.
func SeeOther(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Invalid returns a form state with field errors.
func Invalid(c echo.Context, state domain.FormState) error {
	return c.JSON(http.StatusUnprocessableEntity, state)
}

// Failed returns a form state for a failure that was not the submitter's fault.
func Failed(c echo.Context, state domain.FormState) error {
	return c.JSON(http.StatusInternalServerError, state)
}

// Unauthorized returns a sign-in form state.
func Unauthorized(c echo.Context, state domain.FormState) error {
	return c.JSON(http.StatusUnauthorized, state)
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.DebugContext(
		c.Request().Context(), "Bad request",
		slog.String("error", msg),
		slog.String("module", "rest"),
	)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	slog.ErrorContext(
		ctx, "Internal error",
		slog.String("error", err.Error()),
		slog.String("traceID", trace.SpanFromContext(ctx).SpanContext().TraceID().String()),
		slog.String("module", "rest"),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}
