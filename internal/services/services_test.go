package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/password"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/eventoshub/eventos-backend/internal/tokens"
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

func testCodec() *tokens.Codec {
	return tokens.NewCodec(tokens.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "eventos",
	})
}

// fastHasher keeps argon2 cheap in tests.
func fastHasher() *password.Hasher {
	return password.NewHasher(password.Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 8, KeyLen: 16})
}

func testAuthService() *AuthService {
	return NewAuthService(
		repository.NewUserRepository(),
		repository.NewRoleRepository(),
		repository.NewRefreshTokenRepository(),
		repository.NewAuditRepository(),
		testCodec(),
		fastHasher(),
	)
}

func testUserService() *UserService {
	return NewUserService(
		repository.NewUserRepository(),
		repository.NewRoleRepository(),
		repository.NewAuditRepository(),
		fastHasher(),
	)
}

func testEventService() *EventService {
	return NewEventService(
		repository.NewStudentRepository(),
		repository.NewEventRepository(),
		repository.NewEnrollmentRepository(),
	)
}

func createTenant(t *testing.T, slug string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{Name: slug, Slug: slug}
	require.NoError(t, repository.NewTenantRepository().Create(context.Background(), tenant))
	return tenant
}
