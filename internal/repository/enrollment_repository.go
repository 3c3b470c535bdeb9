package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
	"gorm.io/gorm"
)

// EnrollmentRepository handles enrollment and attendance database operations
type EnrollmentRepository struct{}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{}
}

// ListByEvent retrieves the enrollments of an event
func (r *EnrollmentRepository) ListByEvent(ctx context.Context, eventID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := database.DB.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID retrieves one enrollment
func (r *EnrollmentRepository) FindByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := database.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&enrollment).Error; err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return &enrollment, nil
}

// FindByStudentAndEvent retrieves an existing enrollment for (student, event),
// nil when none exists.
func (r *EnrollmentRepository) FindByStudentAndEvent(ctx context.Context, studentID, eventID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := database.DB.WithContext(ctx).
		Where("student_id = ? AND event_id = ?", studentID, eventID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return &enrollment, nil
}

// Create creates a new enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := database.DB.WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// Update saves enrollment changes
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if err := database.DB.WithContext(ctx).Save(enrollment).Error; err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	return nil
}

// FindAttendance retrieves the attendance row for (enrollment, day), nil when
// none exists yet.
func (r *EnrollmentRepository) FindAttendance(ctx context.Context, enrollmentID, dayID uint) (*models.Attendance, error) {
	var att models.Attendance
	err := database.DB.WithContext(ctx).
		Where("enrollment_id = ? AND event_day_id = ?", enrollmentID, dayID).
		First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}
	return &att, nil
}

// SaveAttendance inserts or updates an attendance row
func (r *EnrollmentRepository) SaveAttendance(ctx context.Context, att *models.Attendance) error {
	if err := database.DB.WithContext(ctx).Save(att).Error; err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	return nil
}
