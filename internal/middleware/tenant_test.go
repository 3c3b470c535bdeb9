package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventoshub/eventos-backend/internal/cache"
	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Route("/{tenant}", func(r chi.Router) {
		r.Use(TenantResolver(repository.NewTenantRepository(), nil))
		r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
			tenant, ok := GetTenant(req.Context())
			if !ok {
				http.Error(w, "no tenant in context", http.StatusInternalServerError)
				return
			}
			w.Write([]byte(tenant.Slug))
		})
	})
	// Header/query resolution, no path segment.
	r.With(TenantResolver(repository.NewTenantRepository(), nil)).Get("/ping", func(w http.ResponseWriter, req *http.Request) {
		tenant, _ := GetTenant(req.Context())
		w.Write([]byte(tenant.Slug))
	})
	return r
}

func TestTenantResolverFromPath(t *testing.T) {
	setupDB(t)
	createTenant(t, "acme")
	router := tenantRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/acme/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestTenantResolverNormalizesDesignator(t *testing.T) {
	setupDB(t)
	createTenant(t, "acme")
	router := tenantRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/AcMe/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestTenantResolverPathBeatsHeaderAndQuery(t *testing.T) {
	setupDB(t)
	createTenant(t, "acme")
	createTenant(t, "other")
	router := tenantRouter()

	req := httptest.NewRequest(http.MethodGet, "/acme/ping?tenant=other", nil)
	req.Header.Set("X-Tenant", "other")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestTenantResolverHeaderBeatsQuery(t *testing.T) {
	setupDB(t)
	createTenant(t, "acme")
	createTenant(t, "other")
	router := tenantRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping?tenant=other", nil)
	req.Header.Set("X-Tenant", "acme")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestTenantResolverQueryFallback(t *testing.T) {
	setupDB(t)
	createTenant(t, "acme")
	router := tenantRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping?tenant=acme", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestTenantResolverNumericFallback(t *testing.T) {
	setupDB(t)
	tenant := createTenant(t, "acme")
	router := tenantRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/%d/ping", tenant.ID), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestTenantResolverSlugBeatsNumericLookup(t *testing.T) {
	setupDB(t)
	first := createTenant(t, "acme")
	// A tenant whose slug is the id of another tenant must win over the
	// numeric fallback.
	numeric := createTenant(t, fmt.Sprintf("%d", first.ID))
	router := tenantRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/%d/ping", first.ID), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, numeric.Slug, rec.Body.String())
}

func TestTenantResolverCachesLookups(t *testing.T) {
	setupDB(t)
	tenant := createTenant(t, "acme")
	store := cache.NewMemoryCache()
	t.Cleanup(func() { store.Close() })

	r := chi.NewRouter()
	r.Route("/{tenant}", func(r chi.Router) {
		r.Use(TenantResolver(repository.NewTenantRepository(), store))
		r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
			resolved, _ := GetTenant(req.Context())
			w.Write([]byte(resolved.Slug))
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/acme/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	exists, err := store.Exists(context.Background(), cache.TenantKey("acme"))
	assert.NoError(t, err)
	assert.True(t, exists)

	// Later requests resolve from the cache even if the row is gone.
	require.NoError(t, database.DB.Delete(&models.Tenant{}, tenant.ID).Error)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/acme/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestTenantResolverUnknownTenant(t *testing.T) {
	setupDB(t)
	router := tenantRouter()

	for _, path := range []string{"/ghost/ping", "/99999/ping", "/ping"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
	}
}
