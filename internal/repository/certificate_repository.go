package repository

import (
	"context"
	"fmt"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
)

// CertificateRepository handles certificate database operations
type CertificateRepository struct{}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository() *CertificateRepository {
	return &CertificateRepository{}
}

// Create issues a new certificate record
func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	if err := database.DB.WithContext(ctx).Create(cert).Error; err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	return nil
}

// FindByVerifyCode retrieves a certificate by its public verify code
func (r *CertificateRepository) FindByVerifyCode(ctx context.Context, code string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := database.DB.WithContext(ctx).
		Where("verify_code = ?", code).
		First(&cert).Error; err != nil {
		return nil, fmt.Errorf("failed to find certificate: %w", err)
	}
	return &cert, nil
}

// FindByEnrollment retrieves the certificates issued for an enrollment
func (r *CertificateRepository) FindByEnrollment(ctx context.Context, enrollmentID uint) ([]models.Certificate, error) {
	var certs []models.Certificate
	if err := database.DB.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("issued_at DESC").
		Find(&certs).Error; err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certs, nil
}

// Revoke marks a certificate as revoked
func (r *CertificateRepository) Revoke(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).
		Model(&models.Certificate{}).
		Where("id = ?", id).
		Update("status", models.CertificateStatusRevoked).Error; err != nil {
		return fmt.Errorf("failed to revoke certificate: %w", err)
	}
	return nil
}
