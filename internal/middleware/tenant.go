package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eventoshub/eventos-backend/internal/cache"
	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type contextKey string

const tenantKey contextKey = "tenant"

// Resolved tenants are cached briefly. Slug and id never change, so a stale
// entry can only lag on contact-field edits.
const tenantCacheTTL = time.Minute

// TenantResolver resolves the tenant a request belongs to. Sources are tried
// in priority order (URL path segment, then X-Tenant header, then tenant
// query parameter) and the winning value is matched against tenant slugs,
// falling back to a numeric id lookup. Requests with no resolvable tenant
// get a 404. A nil store disables lookup caching.
func TenantResolver(tenants *repository.TenantRepository, store cache.Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			designator := firstNonEmpty(
				chi.URLParam(r, "tenant"),
				r.Header.Get("X-Tenant"),
				r.URL.Query().Get("tenant"),
			)
			designator = strings.ToLower(strings.TrimSpace(designator))
			if designator == "" {
				log.Warn().Str("path", r.URL.Path).Msg("Missing tenant designator")
				http.Error(w, "Tenant not found", http.StatusNotFound)
				return
			}

			if tenant := cachedTenant(r.Context(), store, designator); tenant != nil {
				ctx := context.WithValue(r.Context(), tenantKey, tenant)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			tenant, err := tenants.FindBySlug(r.Context(), designator)
			if err != nil {
				// Purely numeric designators may be tenant ids.
				if id, convErr := strconv.ParseUint(designator, 10, 64); convErr == nil {
					tenant, err = tenants.FindByID(r.Context(), uint(id))
				}
			}
			if err != nil || tenant == nil {
				log.Warn().Str("tenant", designator).Msg("Unknown tenant")
				http.Error(w, "Tenant not found", http.StatusNotFound)
				return
			}

			storeTenant(r.Context(), store, designator, tenant)

			ctx := context.WithValue(r.Context(), tenantKey, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenant extracts the resolved tenant from context
func GetTenant(ctx context.Context) (*models.Tenant, bool) {
	tenant, ok := ctx.Value(tenantKey).(*models.Tenant)
	return tenant, ok
}

func cachedTenant(ctx context.Context, store cache.Cache, designator string) *models.Tenant {
	if store == nil {
		return nil
	}
	raw, err := store.Get(ctx, cache.TenantKey(designator))
	if err != nil {
		return nil
	}
	var tenant models.Tenant
	if err := json.Unmarshal(raw, &tenant); err != nil {
		return nil
	}
	return &tenant
}

func storeTenant(ctx context.Context, store cache.Cache, designator string, tenant *models.Tenant) {
	if store == nil {
		return
	}
	raw, err := json.Marshal(tenant)
	if err != nil {
		return
	}
	if err := store.Set(ctx, cache.TenantKey(designator), raw, tenantCacheTTL); err != nil {
		log.Warn().Err(err).Str("tenant", designator).Msg("Failed to cache tenant lookup")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
