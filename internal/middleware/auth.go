package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/eventoshub/eventos-backend/internal/tokens"
	"github.com/rs/zerolog/log"
)

const identityKey contextKey = "identity"

const bearerScheme = "Bearer "

// Authenticate loads the acting user for a request. It requires a resolved
// tenant in the context: the token's tenant claim is the only
// cryptographically-backed binding to a tenant, so it is compared against the
// resolved tenant before any user lookup, and the lookup itself is scoped to
// that tenant. Every failure is a uniform 401.
func Authenticate(codec *tokens.Codec, users *repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant, ok := GetTenant(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			raw, ok := extractBearer(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := codec.DecodeAccess(raw)
			if err != nil {
				unauthorized(w)
				return
			}

			// Cross-tenant defense: path, header and query are attacker
			// controlled; the signed claim must corroborate them.
			if claims.Tenant != tenant.Slug {
				log.Warn().
					Str("token_tenant", claims.Tenant).
					Str("resolved_tenant", tenant.Slug).
					Msg("Token tenant mismatch")
				unauthorized(w)
				return
			}

			userID, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.FindByTenantAndID(r.Context(), tenant.ID, uint(userID))
			if err != nil {
				unauthorized(w)
				return
			}
			if !user.IsActive() {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser extracts the authenticated user from context
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey).(*models.User)
	return user, ok
}

func extractBearer(header string) (string, bool) {
	if len(header) <= len(bearerScheme) {
		return "", false
	}
	if !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "Invalid credentials", http.StatusUnauthorized)
}
