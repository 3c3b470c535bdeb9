package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentStatusPending   = "pending"
	EnrollmentStatusConfirmed = "confirmed"
	EnrollmentStatusWaitlist  = "waitlist"
	EnrollmentStatusCancelled = "cancelled"
)

// Enrollment links a student to an event. The QR seed is minted at creation
// and drives the rotating gate QR codes.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:uq_enrollment_student_event" json:"student_id"`
	EventID   uint      `gorm:"not null;index;uniqueIndex:uq_enrollment_student_event" json:"event_id"`
	Status    string    `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	QRSeed    string    `gorm:"type:varchar(64);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Enrollment) TableName() string {
	return "enrollments"
}

// BeforeCreate hook
func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.QRSeed == "" {
		e.QRSeed = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = EnrollmentStatusPending
	}
	return nil
}
