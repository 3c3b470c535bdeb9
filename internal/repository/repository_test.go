package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
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
	require.NoError(t, NewTenantRepository().Create(context.Background(), tenant))
	return tenant
}

func createUser(t *testing.T, tenant *models.Tenant, email string, roles ...models.RoleName) *models.User {
	t.Helper()
	ctx := context.Background()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	resolved, err := NewRoleRepository().FindOrCreate(ctx, names)
	require.NoError(t, err)

	user := &models.User{
		TenantID:       tenant.ID,
		Name:           email,
		Email:          email,
		HashedPassword: "x",
		Status:         models.UserStatusActive,
		Roles:          resolved,
	}
	require.NoError(t, NewUserRepository().Create(ctx, user))
	return user
}
