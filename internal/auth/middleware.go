package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platelog/platelog-backend/internal/api/respond"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// Middleware authenticates every request on the subrouter and stashes the
// caller identity plus the raw bearer token in the request context. The raw
// token is kept because the docstore calls run as the end user.
func Middleware(authorizer Authorizer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractBearer(r)
			if err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			user, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the authenticated caller stored by Middleware.
func UserFrom(ctx context.Context) (*UserInfo, bool) {
	u, ok := ctx.Value(userKey).(*UserInfo)
	return u, ok
}

// TokenFrom returns the raw bearer token stored by Middleware.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey).(string)
	return tok
}
