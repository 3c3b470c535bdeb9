package middleware

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	err := database.Connect(database.Config{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
}

func createTenant(t *testing.T, slug string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{Name: slug, Slug: slug}
	require.NoError(t, repository.NewTenantRepository().Create(context.Background(), tenant))
	return tenant
}

func createUser(t *testing.T, tenant *models.Tenant, email, status string, roles ...models.RoleName) *models.User {
	t.Helper()
	ctx := context.Background()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	resolved, err := repository.NewRoleRepository().FindOrCreate(ctx, names)
	require.NoError(t, err)

	user := &models.User{
		TenantID:       tenant.ID,
		Name:           email,
		Email:          email,
		HashedPassword: "x",
		Status:         status,
		Roles:          resolved,
	}
	require.NoError(t, repository.NewUserRepository().Create(ctx, user))
	return user
}

// okHandler reports whether the middleware chain let the request through.
func okHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
