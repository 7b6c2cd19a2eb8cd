package middleware

import (
	"net/http"

	"github.com/medas/intern-tracker-go/internal/domain/user"
)

// AdminOnly guards account provisioning.
func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(user.RoleAdmin)(next)
}
