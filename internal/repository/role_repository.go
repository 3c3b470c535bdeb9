package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
)

// RoleRepository handles role database operations
type RoleRepository struct{}

// NewRoleRepository creates a new role repository
func NewRoleRepository() *RoleRepository {
	return &RoleRepository{}
}

// List retrieves all roles
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := database.DB.WithContext(ctx).
		Order("id ASC").
		Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// FindByNames retrieves the roles matching the given names, lowercased.
// Names with no matching row are simply absent from the result.
func (r *RoleRepository) FindByNames(ctx context.Context, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(n)))
	}
	var roles []models.Role
	if err := database.DB.WithContext(ctx).
		Where("name IN ?", normalized).
		Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}
	return roles, nil
}

// FindOrCreate ensures a row exists for every valid role name and returns
// them. Unknown names outside the fixed vocabulary are rejected.
func (r *RoleRepository) FindOrCreate(ctx context.Context, names []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	for _, n := range names {
		name, ok := models.ParseRole(n)
		if !ok {
			return nil, fmt.Errorf("unknown role: %s", n)
		}
		role := models.Role{Name: string(name)}
		if err := database.DB.WithContext(ctx).
			Where("name = ?", string(name)).
			FirstOrCreate(&role).Error; err != nil {
			return nil, fmt.Errorf("failed to find or create role %s: %w", name, err)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
