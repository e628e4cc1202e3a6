package usecase

import (
	"context"
	"errors"
	"net/url"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/policy"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgSomethingWentWrong = "Something went wrong."
)

// SignInResult carries either a session to set or a message for the form.
type SignInResult struct {
	Token      string
	RedirectTo string
	Message    string
}

func (r SignInResult) OK() bool {
	return r.Message == ""
}

type AuthUsecase struct {
	provider CredentialsProvider
}

func NewAuthUsecase(provider CredentialsProvider) *AuthUsecase {
	return &AuthUsecase{provider: provider}
}

// Authenticate exchanges submitted credentials for a session. Failures the
// provider reports as *domain.AuthError become a form message; any other
// error is returned untouched.
func (uc *AuthUsecase) Authenticate(ctx context.Context, form url.Values) (SignInResult, error) {
	ctx, span := tracer.Start(ctx, "Auth.Usecase.Authenticate")
	defer span.End()

	user, err := uc.provider.Authorize(ctx, form)
	if err == nil {
		var token string
		token, err = uc.provider.IssueSession(ctx, user)
		if err == nil {
			return SignInResult{
				Token:      token,
				RedirectTo: policy.SafeCallback(form.Get(domain.CallbackURLParam)),
			}, nil
		}
	}

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Type {
		case domain.CredentialsSignin:
			return SignInResult{Message: msgInvalidCredentials}, nil
		default:
			return SignInResult{Message: msgSomethingWentWrong}, nil
		}
	}

	span.RecordError(err)
	return SignInResult{}, err
}
