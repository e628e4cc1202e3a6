package jwt

import (
	gojwt "github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed-in user's session, carried in a cookie.
type SessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	gojwt.RegisteredClaims
}

// UserID is the subject of the session.
func (c *SessionClaims) UserID() string {
	return c.Subject
}
