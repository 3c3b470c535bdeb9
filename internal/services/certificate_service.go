package services

import (
	"context"
	"time"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
)

// CertificateService issues and verifies certificate records. Rendering the
// actual PDF happens in a separate pipeline keyed by the verify code.
type CertificateService struct {
	certs       *repository.CertificateRepository
	enrollments *repository.EnrollmentRepository
	events      *repository.EventRepository
}

// NewCertificateService creates a new certificate service
func NewCertificateService(
	certs *repository.CertificateRepository,
	enrollments *repository.EnrollmentRepository,
	events *repository.EventRepository,
) *CertificateService {
	return &CertificateService{certs: certs, enrollments: enrollments, events: events}
}

// Issue creates a certificate record for an enrollment of the tenant.
func (s *CertificateService) Issue(ctx context.Context, tenant *models.Tenant, enrollmentID uint) (*models.Certificate, error) {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.events.FindByTenantAndID(ctx, tenant.ID, enrollment.EventID); err != nil {
		return nil, ErrNotFound
	}

	cert := &models.Certificate{
		EnrollmentID: enrollment.ID,
		IssuedAt:     time.Now().UTC(),
		Status:       models.CertificateStatusIssued,
	}
	if err := s.certs.Create(ctx, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// Verify resolves a certificate by its public verify code, confirming it
// belongs to the tenant.
func (s *CertificateService) Verify(ctx context.Context, tenant *models.Tenant, code string) (*models.Certificate, error) {
	cert, err := s.certs.FindByVerifyCode(ctx, code)
	if err != nil {
		return nil, ErrNotFound
	}
	enrollment, err := s.enrollments.FindByID(ctx, cert.EnrollmentID)
	if err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.events.FindByTenantAndID(ctx, tenant.ID, enrollment.EventID); err != nil {
		return nil, ErrNotFound
	}
	return cert, nil
}
