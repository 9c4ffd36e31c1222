package auth

import (
	"github.com/platelog/platelog-backend/internal/config"
)

// NewAuthorizer picks the Authorizer for the environment: the mock in dev
// mode (or whenever no session secret is configured), JWT otherwise.
func NewAuthorizer(cfg *config.Config) Authorizer {
	if cfg.IsDevMode() || cfg.JWTSecret == "" {
		return NewMockAuthorizer()
	}
	return NewJWTAuthorizer(cfg.JWTSecret)
}
