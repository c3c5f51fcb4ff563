package middleware

import (
	"context"
	"log"
	"net/http"
	"todo_app/internal/common"
	"todo_app/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const PrincipalCtxKey contextKey = "principal"

// Authenticator verifies the bearer token and stores the resulting Principal
// in the request context. Every failure is a 401.
func Authenticator(tokens *security.TokenAuthority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := jwtauth.TokenFromHeader(r)
			if tokenString == "" {
				common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			principal, err := tokens.Verify(tokenString)
			if err != nil {
				log.Printf("INFO: rejected bearer token: %v", err)
				common.RespondWithError(w, http.StatusUnauthorized, "Could not validate user.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// AdminOnly must run after Authenticator. A missing or non-admin role is
// answered with 401, not 403.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok || !principal.IsAdmin() {
			common.RespondWithError(w, http.StatusUnauthorized, "Authentication Failed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithPrincipal(ctx context.Context, p security.Principal) context.Context {
	return context.WithValue(ctx, PrincipalCtxKey, p)
}

// Helper to get the authenticated principal from context
func PrincipalFromContext(ctx context.Context) (security.Principal, bool) {
	p, ok := ctx.Value(PrincipalCtxKey).(security.Principal)
	return p, ok
}
