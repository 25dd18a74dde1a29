// Package identity abstracts the component that owns user credentials and issues
// bearer tokens. Two providers exist: a local one backed by the application database
// and a Cognito one (see infrastructure/aws/cognito).
package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUsernameTaken      = errors.New("identity: username already taken")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrInvalidToken       = errors.New("identity: invalid token")
	ErrInvalidPassword    = errors.New("identity: password does not meet requirements")
	ErrInvalidParameter   = errors.New("identity: invalid parameter")
	ErrTooManyRequests    = errors.New("identity: too many requests")
	ErrUserNotConfirmed   = errors.New("identity: user not confirmed")
	ErrUserNotFound       = errors.New("identity: user not found")
)

// TokenData is what a verified bearer token tells about its holder.
type TokenData struct {
	Sub string
	// JTI uniquely identifies the token, used for revocation on logout.
	JTI string
	// ExpiresAt is in epoch milliseconds.
	ExpiresAt int64
}

// Session holds the tokens returned on a successful authentication.
type Session struct {
	AccessToken string
	IDToken     string
}

type Provider interface {
	// Register creates the credentials and returns the subject identifier.
	Register(ctx context.Context, username, email, password string) (string, error)
	// Remove deletes the credentials of username, used to revert a failed registration.
	Remove(ctx context.Context, username string) error
	Authenticate(ctx context.Context, username, password string) (*Session, error)
	Verify(ctx context.Context, token string) (*TokenData, error)
	// SignOut invalidates the sessions of the token holder on the provider side, if supported.
	SignOut(ctx context.Context, token string) error
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
