package services

import (
	"context"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/password"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// UserService implements admin-facing user management within a tenant.
type UserService struct {
	users  *repository.UserRepository
	roles  *repository.RoleRepository
	audit  *repository.AuditRepository
	hasher *password.Hasher
}

// NewUserService creates a new user service
func NewUserService(
	users *repository.UserRepository,
	roles *repository.RoleRepository,
	audit *repository.AuditRepository,
	hasher *password.Hasher,
) *UserService {
	return &UserService{users: users, roles: roles, audit: audit, hasher: hasher}
}

// List retrieves the users of the tenant
func (s *UserService) List(ctx context.Context, tenant *models.Tenant) ([]models.User, error) {
	return s.users.ListByTenant(ctx, tenant.ID)
}

// Create registers a new user in the tenant with the given roles.
func (s *UserService) Create(ctx context.Context, tenant *models.Tenant, name, email, plain string, roleNames []string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := checkPasswordPolicy(plain); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByTenantAndEmail(ctx, tenant.ID, email); err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}
	roles, err := resolveRoles(ctx, s.roles, roleNames)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TenantID:       tenant.ID,
		Name:           name,
		Email:          email,
		HashedPassword: hashed,
		Status:         models.UserStatusActive,
		Roles:          roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRoles replaces a user's role set. A change that would leave the tenant
// without a single admin is rejected with ErrLastAdmin and the user's roles
// stay untouched.
func (s *UserService) SetRoles(ctx context.Context, tenant *models.Tenant, userID uint, roleNames []string) (*models.User, error) {
	user, err := s.users.FindByTenantAndID(ctx, tenant.ID, userID)
	if err != nil {
		return nil, ErrNotFound
	}

	for _, n := range roleNames {
		if _, ok := models.ParseRole(n); !ok {
			return nil, ErrUnknownRoles
		}
	}

	if !containsRole(roleNames, models.RoleAdmin) {
		remaining, err := s.users.CountAdmins(ctx, tenant.ID, user.ID)
		if err != nil {
			return nil, err
		}
		if remaining == 0 {
			return nil, ErrLastAdmin
		}
	}

	roles, err := s.roles.FindOrCreate(ctx, roleNames)
	if err != nil {
		return nil, err
	}
	if err := s.users.ReplaceRoles(ctx, user, roles); err != nil {
		return nil, err
	}

	entry := &models.AuditLog{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Entity:   "user",
		EntityID: user.ID,
		Action:   "set_roles",
		Diff:     map[string]any{"roles": roleNames},
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Msg("Failed to append audit log")
	}

	return user, nil
}

func containsRole(names []string, role models.RoleName) bool {
	for _, n := range names {
		if parsed, ok := models.ParseRole(n); ok && parsed == role {
			return true
		}
	}
	return false
}
