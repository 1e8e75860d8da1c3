package auth

import (
	"context"
)

const (
	// LocalDevToken is the hardcoded bearer token for local development only
	LocalDevToken = "eterna_local_dev_token"

	// LocalDevUserID is the user the dev token resolves to.
	LocalDevUserID = "eterna-dev"
)

// DevAuthenticator accepts only LocalDevToken and resolves it to a fixed dev user.
type DevAuthenticator struct{}

// NewDevAuthenticator creates a DevAuthenticator for local development.
func NewDevAuthenticator() *DevAuthenticator {
	return &DevAuthenticator{}
}

// Authenticate validates the hardcoded dev token.
func (d *DevAuthenticator) Authenticate(_ context.Context, token string) (*Session, error) {
	if token != LocalDevToken {
		return nil, ErrInvalidToken
	}
	return &Session{UserID: LocalDevUserID, Email: "dev@eterna.local"}, nil
}
