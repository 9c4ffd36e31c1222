package auth

import (
	"context"
	"errors"
	"strings"
)

const (
	// LocalDevToken is the hardcoded bearer token for local development only.
	LocalDevToken = "tok_local_platelog_dev"

	// localDevGuestPrefix lets dev tooling act as an arbitrary guest:
	// "tok_local_platelog_guest:<id>" resolves to an anonymous user <id>.
	localDevGuestPrefix = "tok_local_platelog_guest:"
)

// MockAuthorizer provides a simple authorizer for local development. It only
// recognizes the hardcoded dev tokens.
type MockAuthorizer struct{}

func NewMockAuthorizer() *MockAuthorizer { return &MockAuthorizer{} }

func (m *MockAuthorizer) Authorize(ctx context.Context, token string) (*UserInfo, error) {
	if token == LocalDevToken {
		return &UserInfo{
			UserID:   "platelog-dev",
			Provider: ProviderGoogle,
			Email:    "dev@platelog.local",
		}, nil
	}
	if id, ok := strings.CutPrefix(token, localDevGuestPrefix); ok && id != "" {
		return &UserInfo{UserID: id, Provider: ProviderAnonymous}, nil
	}
	return nil, errors.New("invalid token for local development")
}
