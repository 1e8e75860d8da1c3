package auth

import (
	"context"
)

// Session identifies the signed-in user behind a request.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Authenticator validates a bearer token and resolves it to a Session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Session, error)
}

type sessionKey struct{}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored by WithSession, if any.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
