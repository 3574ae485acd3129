package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/foodshare/engine/internal/api/types"
	"github.com/foodshare/engine/internal/auth"
	"github.com/foodshare/engine/internal/models"
	"github.com/foodshare/engine/internal/services"
	appErr "github.com/foodshare/engine/pkg/errors"
)

type callerKey struct{}
type claimsKey struct{}

// Authenticator resolves a bearer token into the caller behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (services.Caller, *auth.Claims, error)
}

// Auth validates the Bearer token and stores the caller and its claims in context.
func Auth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
				types.WriteError(w, r, appErr.Unauthorized("missing bearer token"))
				return
			}
			caller, claims, err := a.Authenticate(r.Context(), strings.TrimSpace(ah[len("Bearer "):]))
			if err != nil {
				types.WriteError(w, r, err)
				return
			}
			noteCaller(r.Context(), caller)
			ctx := context.WithValue(r.Context(), callerKey{}, caller)
			ctx = context.WithValue(ctx, claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated callers whose role differs from role.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := GetCaller(r.Context())
			if !ok {
				types.WriteError(w, r, appErr.Unauthorized("authentication required"))
				return
			}
			if c.Role != role {
				types.WriteError(w, r, appErr.Forbidden(string(role)+" account required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetCaller(ctx context.Context) (services.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(services.Caller)
	return c, ok
}

func GetClaims(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}
