package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tuannm151/sweetshop/internal/apperr"
	"github.com/tuannm151/sweetshop/internal/http/apierr"
	"github.com/tuannm151/sweetshop/internal/model"
	"github.com/tuannm151/sweetshop/internal/service"
)

type principalCtxKey struct{}

// PrincipalFromContext returns the authenticated user stored by
// Authenticate, if any.
func PrincipalFromContext(ctx context.Context) (model.User, bool) {
	principal, ok := ctx.Value(principalCtxKey{}).(model.User)
	return principal, ok
}

// NewPrincipalContext returns a copy of ctx carrying the principal.
// Exported for handler tests that bypass the middleware.
func NewPrincipalContext(ctx context.Context, principal model.User) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, principal)
}

// Authenticate extracts the bearer token, verifies it and re-resolves the
// user it names, storing the principal in the request context. Missing or
// invalid tokens and unresolved principals all answer 401.
func Authenticate(authSvc service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, apperr.UnauthenticatedErr)
				return
			}

			principal, err := authSvc.ResolvePrincipal(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := NewPrincipalContext(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route on the principal's admin flag. It is a pure
// predicate on the already-resolved principal and never hits the store.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, apperr.UnauthenticatedErr)
				return
			}

			if !principal.IsAdmin {
				writeError(w, apperr.AdminRequiredErr)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func writeError(w http.ResponseWriter, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	//nolint:errcheck
	json.NewEncoder(w).Encode(res)
}
