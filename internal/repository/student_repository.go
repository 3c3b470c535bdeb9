package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
)

// StudentRepository handles student database operations
type StudentRepository struct{}

// NewStudentRepository creates a new student repository
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

// ListByTenant retrieves all students of a tenant
func (r *StudentRepository) ListByTenant(ctx context.Context, tenantID uint) ([]models.Student, error) {
	var students []models.Student
	if err := database.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// FindByTenantAndID retrieves one student scoped to the tenant
func (r *StudentRepository) FindByTenantAndID(ctx context.Context, tenantID, id uint) (*models.Student, error) {
	var student models.Student
	if err := database.DB.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&student).Error; err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return &student, nil
}

// FindByTenantAndEmail retrieves one student by email scoped to the tenant
func (r *StudentRepository) FindByTenantAndEmail(ctx context.Context, tenantID uint, email string) (*models.Student, error) {
	var student models.Student
	if err := database.DB.WithContext(ctx).
		Where("tenant_id = ? AND lower(email) = ?", tenantID, strings.ToLower(strings.TrimSpace(email))).
		First(&student).Error; err != nil {
		return nil, fmt.Errorf("failed to find student by email: %w", err)
	}
	return &student, nil
}

// Create creates a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := database.DB.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// Update saves student changes
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	if err := database.DB.WithContext(ctx).Save(student).Error; err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

// Delete removes a student
func (r *StudentRepository) Delete(ctx context.Context, tenantID, id uint) error {
	if err := database.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.Student{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}
