package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ErrFetchUser means the credential store could not be queried at all.
var ErrFetchUser = errors.New("failed to fetch user")

type AuthErrorType string

const (
	CredentialsSignin AuthErrorType = "CredentialsSignin"
	SessionError      AuthErrorType = "SessionError"
)

// AuthError is raised by a credentials provider for failures inside the
// authentication contract.
type AuthError struct {
	Type  AuthErrorType
	Cause error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Type, e.Cause)
	}
	return string(e.Type)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}
