package service

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/internal/validation"
	"github.com/totegamma/invoicedash/jwt"
)

var tracer = otel.Tracer("auth")

// PasswordCost is the bcrypt work factor used for stored credentials.
const PasswordCost = 10

// UserRepository looks up credential records.
type UserRepository interface {
	GetUser(ctx context.Context, email string) (*domain.User, error)
}

type AuthService struct {
	users  UserRepository
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

func NewAuthService(
	users UserRepository,
	secret []byte,
	maxAge time.Duration,
) *AuthService {
	return &AuthService{
		users:  users,
		secret: secret,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Authorize checks submitted credentials. Anything wrong with what the user
// typed is an *domain.AuthError of type CredentialsSignin; a store failure is
// returned as is.
func (s *AuthService) Authorize(ctx context.Context, form url.Values) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Authorize")
	defer span.End()

	creds, state := validation.ParseCredentials(form)
	if state != nil {
		slog.InfoContext(ctx, "Invalid credentials", slog.String("module", "auth"))
		return nil, &domain.AuthError{Type: domain.CredentialsSignin}
	}

	user, err := s.users.GetUser(ctx, creds.Email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if user == nil || !CheckPassword(creds.Password, user.Password) {
		slog.InfoContext(ctx, "Invalid credentials", slog.String("module", "auth"))
		return nil, &domain.AuthError{Type: domain.CredentialsSignin}
	}

	return user, nil
}

// IssueSession signs a session token for an authorized user.
func (s *AuthService) IssueSession(ctx context.Context, user *domain.User) (string, error) {
	_, span := tracer.Start(ctx, "Auth.Service.IssueSession")
	defer span.End()

	token, err := jwt.Create(user.ID, user.Name, user.Email, s.secret, s.maxAge, s.now())
	if err != nil {
		span.RecordError(err)
		return "", &domain.AuthError{Type: domain.SessionError, Cause: err}
	}
	return token, nil
}

// Session returns the claims of a valid token, or nil.
func (s *AuthService) Session(ctx context.Context, token string) *jwt.SessionClaims {
	if token == "" {
		return nil
	}
	claims, err := jwt.Validate(token, s.secret)
	if err != nil {
		slog.DebugContext(
			ctx, "Rejected session",
			slog.String("error", err.Error()),
			slog.String("module", "auth"),
		)
		return nil
	}
	return claims
}

func (s *AuthService) MaxAge() time.Duration {
	return s.maxAge
}

// HashPassword produces the salted one-way hash stored for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against its stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
