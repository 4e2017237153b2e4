package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/homebuddy/homebuddy-api/internal/domain"
	"github.com/homebuddy/homebuddy-api/internal/http/response"
	"github.com/homebuddy/homebuddy-api/internal/platform/auth"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireJWT verifies the bearer token and stores its claims in the request
// context. Role checks happen downstream against the resolved identity.
func RequireJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "invalid authorization header")
				return
			}
			raw := strings.TrimPrefix(authz, "Bearer ")
			claims, err := auth.Parse(raw, secret)
			if err != nil {
				response.Unauthorized(w, "invalid authorization token")
				return
			}
			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}

// Identity resolves the acting admin from the verified claims. ok is false
// when the request carries no valid session.
func Identity(r *http.Request) (domain.Identity, bool) {
	claims := Claims(r)
	if claims == nil {
		return domain.Identity{}, false
	}
	role, ok := domain.ParseAdminRole(claims.Role)
	if !ok {
		return domain.Identity{}, false
	}
	return domain.Identity{
		ID:       claims.Sub,
		Username: claims.Username,
		Role:     role,
	}, true
}
