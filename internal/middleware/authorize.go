package middleware

import (
	"fmt"
	"net/http"

	"github.com/eventoshub/eventos-backend/internal/models"
)

// RequireAnyRole passes requests whose authenticated user holds at least one
// of the given roles. It must run after Authenticate: a request with no
// identity is 401, never 403.
func RequireAnyRole(roles ...models.RoleName) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !user.HasAnyRole(roles...) {
				http.Error(w, "Insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMinRole passes requests whose authenticated user holds a role ranked
// at least as high as min.
func RequireMinRole(min models.RoleName) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !user.IsAtLeast(min) {
				http.Error(w, fmt.Sprintf("Requires at least role %q", min), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
