package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/jwt"
	"github.com/totegamma/invoicedash/policy"
)

var tracer = otel.Tracer("auth")

// SessionReader resolves a session cookie value to its claims, or nil.
type SessionReader interface {
	Session(ctx context.Context, token string) *jwt.SessionClaims
}

type AuthMiddleware struct {
	sessions SessionReader
}

func NewAuthMiddleware(sessions SessionReader) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
	}
}

// Gate puts the session, if any, on the request context and applies the
// dashboard access policy.
func (s *AuthMiddleware) Gate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		if !policy.Matches(path) {
			return next(c)
		}

		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.Gate")
		defer span.End()

		var claims *jwt.SessionClaims
		if cookie, err := c.Cookie(domain.SessionCookieName); err == nil {
			claims = s.sessions.Session(ctx, cookie.Value)
		}
		if claims != nil {
			ctx = context.WithValue(ctx, domain.SessionCtxKey, claims)
			span.SetAttributes(attribute.String("UserId", claims.UserID()))
		}

		decision := policy.Decide(claims != nil, path)
		span.SetAttributes(attribute.String("Decision", decision.String()))

		switch decision {
		case policy.Deny:
			return c.Redirect(http.StatusSeeOther, policy.SignInURL(c.Request().URL.RequestURI()))
		case policy.Redirect:
			return c.Redirect(http.StatusSeeOther, domain.DashboardPath)
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// SessionFrom returns the claims the gate attached, or nil.
func SessionFrom(ctx context.Context) *jwt.SessionClaims {
	claims, _ := ctx.Value(domain.SessionCtxKey).(*jwt.SessionClaims)
	return claims
}
