package middleware

import (
	"net/http"

	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
)

// RequirePermission lets the request through when one of the caller's roles
// grants the permission outright. Owner-scoped actions are decided by the
// services instead, so routes interns use do not go through this.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := ActorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.HasAnyRolePermission(actor, permission) {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole requires at least one of the given roles
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := ActorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !actor.HasAnyRole(roles...) {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
