package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
)

// TenantRepository handles tenant database operations
type TenantRepository struct{}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository() *TenantRepository {
	return &TenantRepository{}
}

// FindBySlug retrieves a tenant by its slug, case-insensitively. If data
// corruption produced duplicate slugs, the highest id wins deterministically.
func (r *TenantRepository) FindBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := database.DB.WithContext(ctx).
		Where("lower(slug) = ?", strings.ToLower(strings.TrimSpace(slug))).
		Order("id DESC").
		First(&tenant).Error; err != nil {
		return nil, fmt.Errorf("failed to find tenant by slug: %w", err)
	}
	return &tenant, nil
}

// FindByID retrieves a tenant by numeric identifier
func (r *TenantRepository) FindByID(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := database.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&tenant).Error; err != nil {
		return nil, fmt.Errorf("failed to find tenant by id: %w", err)
	}
	return &tenant, nil
}

// Create provisions a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	if err := database.DB.WithContext(ctx).Create(tenant).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// Update saves tenant changes
func (r *TenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	if err := database.DB.WithContext(ctx).Save(tenant).Error; err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return nil
}
