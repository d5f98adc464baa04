// Package auth provides the bearer-token authentication middleware for
// the protected /users routes and helpers to read the authenticated user
// from a request context.
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/patric-chuzhbe/userauth/internal/logger"
	"github.com/patric-chuzhbe/userauth/internal/user"
)

type tokenResolver interface {
	Resolve(ctx context.Context, token string) (user.User, bool, error)
	Count() int
}

// Auth resolves bearer tokens against the token store.
type Auth struct {
	tokens tokenResolver
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserKey is the context key under which the authenticated user is stored.
const UserKey ContextKey = "currentUser"

const bearerPrefix = "Bearer "

func New(tokens tokenResolver) *Auth {
	return &Auth{
		tokens: tokens,
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The prefix is case-sensitive and the token is trimmed.
func BearerToken(request *http.Request) (string, bool) {
	header := request.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	return strings.TrimSpace(header[len(bearerPrefix):]), true
}

// UserFromContext returns the user attached by AuthenticateUser.
func UserFromContext(ctx context.Context) (user.User, bool) {
	usr, ok := ctx.Value(UserKey).(user.User)
	return usr, ok
}

// WithUser returns a copy of ctx carrying usr.
func WithUser(ctx context.Context, usr user.User) context.Context {
	return context.WithValue(ctx, UserKey, usr)
}

// AuthenticateUser rejects requests without a known bearer token with 401.
// Otherwise it attaches the token's user to the request context and calls h
// without touching its response.
func (a *Auth) AuthenticateUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		log := logger.Log.With(zap.String("path", request.URL.Path))

		token, ok := BearerToken(request)
		if !ok {
			log.Debugln("no Bearer token found in Authorization header")
			response.WriteHeader(http.StatusUnauthorized)
			return
		}

		usr, found, err := a.tokens.Resolve(request.Context(), token)
		if err != nil {
			log.Debugw("Error calling the `a.tokens.Resolve()`", zap.Error(err))
			response.WriteHeader(http.StatusUnauthorized)
			return
		}
		if !found {
			log.Debugw("token not found in active tokens store", "active_tokens", a.tokens.Count())
			response.WriteHeader(http.StatusUnauthorized)
			return
		}

		log.Debugw("token valid", "username", usr.Username)
		h.ServeHTTP(response, request.WithContext(WithUser(request.Context(), usr)))
	}

	return http.HandlerFunc(middleware)
}
