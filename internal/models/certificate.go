package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate statuses
const (
	CertificateStatusIssued  = "issued"
	CertificateStatusRevoked = "revoked"
)

// Certificate is the issuance record for an enrollment. Rendering of the PDF
// itself happens in a separate pipeline; this row is what the verify code
// resolves against.
type Certificate struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EnrollmentID uint      `gorm:"not null;index" json:"enrollment_id"`
	IssuedAt     time.Time `gorm:"not null" json:"issued_at"`
	PDFURL       string    `gorm:"type:varchar(255)" json:"pdf_url,omitempty"`
	VerifyCode   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"verify_code"`
	Status       string    `gorm:"type:varchar(20);not null;default:issued" json:"status"`
}

// TableName overrides the table name
func (Certificate) TableName() string {
	return "certificates"
}

// BeforeCreate hook
func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.VerifyCode == "" {
		c.VerifyCode = uuid.NewString()
	}
	if c.IssuedAt.IsZero() {
		c.IssuedAt = time.Now().UTC()
	}
	return nil
}
