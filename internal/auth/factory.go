package auth

import (
	"github.com/HamidMoopen/memo-ai-sub000/internal/config"
)

// NewAuthenticator picks the authenticator for the build target. Local builds
// accept LocalDevToken unless a JWT secret is configured.
func NewAuthenticator(cfg *config.Config) (Authenticator, error) {
	if cfg.IsLocal() && cfg.AuthJWTSecret == "" {
		return NewDevAuthenticator(), nil
	}
	return NewJWTAuthenticator(cfg.AuthJWTSecret)
}
