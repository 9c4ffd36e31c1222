package auth

import (
	"context"
)

// Provider names the sign-in method baked into a token.
const (
	ProviderGoogle    = "google"
	ProviderAnonymous = "anonymous"
)

// UserInfo identifies the authenticated caller.
type UserInfo struct {
	UserID   string `json:"userId"`
	Provider string `json:"provider"`
	Email    string `json:"email,omitempty"`
}

// IsAnonymous reports whether the caller is a guest account.
func (u *UserInfo) IsAnonymous() bool { return u.Provider == ProviderAnonymous }

// Authorizer resolves a bearer token to the caller's identity. It decides
// who the caller is, not what they may touch — per-document access control
// stays with the store's own rules.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*UserInfo, error)
}
