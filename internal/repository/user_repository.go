package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
)

// UserRepository handles user database operations. All lookups are scoped to
// a tenant; there is no global user lookup.
type UserRepository struct{}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByTenantAndID retrieves a user by id within a tenant, roles preloaded
func (r *UserRepository) FindByTenantAndID(ctx context.Context, tenantID, id uint) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).
		Preload("Roles").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return &user, nil
}

// FindByTenantAndEmail retrieves a user by email within a tenant, roles
// preloaded. Email comparison is case-insensitive.
func (r *UserRepository) FindByTenantAndEmail(ctx context.Context, tenantID uint, email string) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).
		Preload("Roles").
		Where("tenant_id = ? AND lower(email) = ?", tenantID, strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// ListByTenant retrieves all users of a tenant with their roles
func (r *UserRepository) ListByTenant(ctx context.Context, tenantID uint) ([]models.User, error) {
	var users []models.User
	if err := database.DB.WithContext(ctx).
		Preload("Roles").
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create creates a new user together with its role associations
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := database.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored credential blob. Concurrent writers
// race last-writer-wins.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	if err := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("hashed_password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ReplaceRoles swaps the user's role set
func (r *UserRepository) ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error {
	if err := database.DB.WithContext(ctx).
		Model(user).
		Association("Roles").
		Replace(roles); err != nil {
		return fmt.Errorf("failed to replace roles: %w", err)
	}
	user.Roles = roles
	return nil
}

// CountAdmins counts users in the tenant holding the admin role, optionally
// excluding one user. Supports the last-admin protection.
func (r *UserRepository) CountAdmins(ctx context.Context, tenantID uint, excludeUserID uint) (int64, error) {
	var count int64
	query := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("users.tenant_id = ? AND roles.name = ?", tenantID, string(models.RoleAdmin))
	if excludeUserID != 0 {
		query = query.Where("users.id <> ?", excludeUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
