package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthorizer validates HS256-signed session tokens minted by the auth
// frontend. The subject claim is the user id; the provider claim carries
// the sign-in method ("google" or "anonymous" for guests).
type JWTAuthorizer struct {
	secret []byte
}

func NewJWTAuthorizer(secret string) *JWTAuthorizer {
	return &JWTAuthorizer{secret: []byte(secret)}
}

func (a *JWTAuthorizer) Authorize(ctx context.Context, token string) (*UserInfo, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token: unexpected claims type")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("invalid token: missing subject")
	}

	info := &UserInfo{UserID: sub, Provider: ProviderAnonymous}
	if provider, ok := claims["provider"].(string); ok && provider != "" {
		info.Provider = provider
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	return info, nil
}
