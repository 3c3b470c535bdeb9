package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/eventoshub/eventos-backend/internal/tokens"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(opts ...tokens.Option) *tokens.Codec {
	return tokens.NewCodec(tokens.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
	}, opts...)
}

func authRouter(codec *tokens.Codec, extra ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/{tenant}", func(r chi.Router) {
		r.Use(TenantResolver(repository.NewTenantRepository(), nil))
		r.Use(Authenticate(codec, repository.NewUserRepository()))
		for _, mw := range extra {
			r.Use(mw)
		}
		r.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
			user, ok := CurrentUser(req.Context())
			if !ok {
				http.Error(w, "no identity in context", http.StatusInternalServerError)
				return
			}
			w.Write([]byte(user.Email))
		})
	})
	return r
}

func accessToken(t *testing.T, codec *tokens.Codec, user *models.User, tenantSlug string) string {
	t.Helper()
	signed, _, err := codec.IssueAccess(strconv.FormatUint(uint64(user.ID), 10), tenantSlug, "user")
	require.NoError(t, err)
	return signed
}

func get(router http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateHappyPath(t *testing.T) {
	setupDB(t)
	codec := testCodec()
	acme := createTenant(t, "acme")
	user := createUser(t, acme, "ana@example.com", models.UserStatusActive, models.RoleAluno)
	router := authRouter(codec)

	rec := get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, user, "acme"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@example.com", rec.Body.String())
}

func TestAuthenticateRejectsCrossTenantToken(t *testing.T) {
	setupDB(t)
	codec := testCodec()
	createTenant(t, "acme")
	other := createTenant(t, "other")
	user := createUser(t, other, "eve@example.com", models.UserStatusActive, models.RoleAdmin)
	router := authRouter(codec)

	// A token minted for "other" must not open "acme", even though every
	// unsigned source says acme.
	rec := get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, user, "other"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	setupDB(t)
	past := time.Now().Add(-2 * time.Hour)
	issuer := testCodec(tokens.WithClock(func() time.Time { return past }))
	verifier := testCodec()
	acme := createTenant(t, "acme")
	user := createUser(t, acme, "ana@example.com", models.UserStatusActive, models.RoleAluno)
	router := authRouter(verifier)

	rec := get(router, "/acme/whoami", "Bearer "+accessToken(t, issuer, user, "acme"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	setupDB(t)
	codec := testCodec()
	acme := createTenant(t, "acme")
	user := createUser(t, acme, "gone@example.com", models.UserStatusInactive, models.RoleAluno)
	router := authRouter(codec)

	rec := get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, user, "acme"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsBadAuthorizationHeader(t *testing.T) {
	setupDB(t)
	codec := testCodec()
	acme := createTenant(t, "acme")
	user := createUser(t, acme, "ana@example.com", models.UserStatusActive, models.RoleAluno)
	token := accessToken(t, codec, user, "acme")
	router := authRouter(codec)

	for _, header := range []string{"", "Basic " + token, token, "Bearer ", "Bearer    "} {
		rec := get(router, "/acme/whoami", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}

	// Scheme matching is case-insensitive.
	rec := get(router, "/acme/whoami", "bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRejectsRefreshTokenAsAccess(t *testing.T) {
	setupDB(t)
	codec := testCodec()
	acme := createTenant(t, "acme")
	user := createUser(t, acme, "ana@example.com", models.UserStatusActive, models.RoleAluno)
	router := authRouter(codec)

	refresh, _, err := codec.IssueRefresh(strconv.FormatUint(uint64(user.ID), 10), "acme", "user")
	require.NoError(t, err)

	rec := get(router, "/acme/whoami", "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAnyRole(t *testing.T) {
	setupDB(t)
	codec := testCodec()
	acme := createTenant(t, "acme")
	admin := createUser(t, acme, "admin@example.com", models.UserStatusActive, models.RoleAdmin)
	aluno := createUser(t, acme, "aluno@example.com", models.UserStatusActive, models.RoleAluno)
	norole := createUser(t, acme, "norole@example.com", models.UserStatusActive)
	router := authRouter(codec, RequireAnyRole(models.RoleAdmin, models.RoleOrganizer))

	rec := get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, admin, "acme"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, aluno, "acme"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, norole, "acme"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No identity at all is a 401, not a 403.
	rec = get(router, "/acme/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireMinRole(t *testing.T) {
	setupDB(t)
	codec := testCodec()
	acme := createTenant(t, "acme")
	organizer := createUser(t, acme, "org@example.com", models.UserStatusActive, models.RoleOrganizer)
	portaria := createUser(t, acme, "gate@example.com", models.UserStatusActive, models.RolePortaria)
	admin := createUser(t, acme, "admin@example.com", models.UserStatusActive, models.RoleAdmin)
	router := authRouter(codec, RequireMinRole(models.RoleOrganizer))

	rec := get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, organizer, "acme"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Higher rank passes.
	rec = get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, admin, "acme"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Lower rank does not.
	rec = get(router, "/acme/whoami", "Bearer "+accessToken(t, codec, portaria, "acme"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
