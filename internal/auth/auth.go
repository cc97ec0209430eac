// Package auth provides the login gate. The static implementation compares
// against configured literals; it creates no session and is not a security
// boundary.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
)

// ErrInvalidCredentials is returned when a username/password pair is rejected.
var ErrInvalidCredentials = errors.New("Invalid username or password")

// Authenticator checks a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// StaticAuthenticator accepts exactly one configured credential pair.
type StaticAuthenticator struct {
	username string
	password string
}

// NewStatic returns an authenticator accepting username/password.
func NewStatic(username, password string) *StaticAuthenticator {
	return &StaticAuthenticator{username: username, password: password}
}

// Authenticate implements Authenticator.
func (a *StaticAuthenticator) Authenticate(_ context.Context, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
