package services

import (
	"context"
	"strings"
	"time"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
)

// EventService covers the tenant-scoped event domain: students, events with
// their scheduled days, and enrollments.
type EventService struct {
	students    *repository.StudentRepository
	events      *repository.EventRepository
	enrollments *repository.EnrollmentRepository
}

// NewEventService creates a new event service
func NewEventService(
	students *repository.StudentRepository,
	events *repository.EventRepository,
	enrollments *repository.EnrollmentRepository,
) *EventService {
	return &EventService{students: students, events: events, enrollments: enrollments}
}

// ListStudents retrieves the students of a tenant
func (s *EventService) ListStudents(ctx context.Context, tenant *models.Tenant) ([]models.Student, error) {
	return s.students.ListByTenant(ctx, tenant.ID)
}

// GetStudent retrieves one student of a tenant
func (s *EventService) GetStudent(ctx context.Context, tenant *models.Tenant, id uint) (*models.Student, error) {
	student, err := s.students.FindByTenantAndID(ctx, tenant.ID, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return student, nil
}

// CreateStudent registers a student under the tenant. Email is unique per
// tenant.
func (s *EventService) CreateStudent(ctx context.Context, tenant *models.Tenant, student *models.Student) error {
	student.TenantID = tenant.ID
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	if _, err := s.students.FindByTenantAndEmail(ctx, tenant.ID, student.Email); err == nil {
		return ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return err
	}
	return s.students.Create(ctx, student)
}

// UpdateStudent applies changes to an existing student of the tenant
func (s *EventService) UpdateStudent(ctx context.Context, tenant *models.Tenant, id uint, changes *models.Student) (*models.Student, error) {
	student, err := s.students.FindByTenantAndID(ctx, tenant.ID, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if changes.Name != "" {
		student.Name = changes.Name
	}
	if changes.Email != "" {
		student.Email = strings.ToLower(strings.TrimSpace(changes.Email))
	}
	if changes.CPF != "" {
		student.CPF = changes.CPF
	}
	if changes.RA != "" {
		student.RA = changes.RA
	}
	if changes.Phone != "" {
		student.Phone = changes.Phone
	}
	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes a student of the tenant
func (s *EventService) DeleteStudent(ctx context.Context, tenant *models.Tenant, id uint) error {
	if _, err := s.students.FindByTenantAndID(ctx, tenant.ID, id); err != nil {
		return ErrNotFound
	}
	return s.students.Delete(ctx, tenant.ID, id)
}

// ListEvents retrieves the events of a tenant
func (s *EventService) ListEvents(ctx context.Context, tenant *models.Tenant) ([]models.Event, error) {
	return s.events.ListByTenant(ctx, tenant.ID)
}

// GetEvent retrieves one event of a tenant, days included
func (s *EventService) GetEvent(ctx context.Context, tenant *models.Tenant, id uint) (*models.Event, error) {
	event, err := s.events.FindByTenantAndID(ctx, tenant.ID, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return event, nil
}

// CreateEvent creates an event under the tenant
func (s *EventService) CreateEvent(ctx context.Context, tenant *models.Tenant, event *models.Event) error {
	event.TenantID = tenant.ID
	if event.Status == "" {
		event.Status = models.EventStatusDraft
	}
	return s.events.Create(ctx, event)
}

// UpdateEvent applies changes to an existing event of the tenant
func (s *EventService) UpdateEvent(ctx context.Context, tenant *models.Tenant, id uint, changes *models.Event) (*models.Event, error) {
	event, err := s.events.FindByTenantAndID(ctx, tenant.ID, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if changes.Title != "" {
		event.Title = changes.Title
	}
	if changes.Description != "" {
		event.Description = changes.Description
	}
	if changes.Venue != "" {
		event.Venue = changes.Venue
	}
	if changes.CapacityTotal != 0 {
		event.CapacityTotal = changes.CapacityTotal
	}
	if changes.WorkloadHours != 0 {
		event.WorkloadHours = changes.WorkloadHours
	}
	if changes.MinPresencePct != 0 {
		event.MinPresencePct = changes.MinPresencePct
	}
	if changes.StartAt != nil {
		event.StartAt = changes.StartAt
	}
	if changes.EndAt != nil {
		event.EndAt = changes.EndAt
	}
	if changes.Status != "" {
		event.Status = changes.Status
	}
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// AddDay appends a scheduled day to an event of the tenant. Start and end
// times must be HH:MM wall-clock values; the gate window math parses them on
// every scan against the day.
func (s *EventService) AddDay(ctx context.Context, tenant *models.Tenant, eventID uint, day *models.EventDay) error {
	if _, err := s.events.FindByTenantAndID(ctx, tenant.ID, eventID); err != nil {
		return ErrNotFound
	}
	for _, clock := range []string{day.StartTime, day.EndTime} {
		if _, err := time.Parse("15:04", clock); err != nil {
			return ErrInvalidSchedule
		}
	}
	day.EventID = eventID
	return s.events.AddDay(ctx, day)
}

// DeleteEvent removes an event of the tenant together with its days
func (s *EventService) DeleteEvent(ctx context.Context, tenant *models.Tenant, id uint) error {
	if _, err := s.events.FindByTenantAndID(ctx, tenant.ID, id); err != nil {
		return ErrNotFound
	}
	return s.events.Delete(ctx, tenant.ID, id)
}

// ListEnrollments retrieves the enrollments of an event of the tenant
func (s *EventService) ListEnrollments(ctx context.Context, tenant *models.Tenant, eventID uint) ([]models.Enrollment, error) {
	if _, err := s.events.FindByTenantAndID(ctx, tenant.ID, eventID); err != nil {
		return nil, ErrNotFound
	}
	return s.enrollments.ListByEvent(ctx, eventID)
}

// Enroll links a student to an event, once
func (s *EventService) Enroll(ctx context.Context, tenant *models.Tenant, eventID, studentID uint) (*models.Enrollment, error) {
	if _, err := s.events.FindByTenantAndID(ctx, tenant.ID, eventID); err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.students.FindByTenantAndID(ctx, tenant.ID, studentID); err != nil {
		return nil, ErrNotFound
	}
	existing, err := s.enrollments.FindByStudentAndEvent(ctx, studentID, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}
	enrollment := &models.Enrollment{StudentID: studentID, EventID: eventID}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// CancelEnrollment marks an enrollment of the tenant as cancelled
func (s *EventService) CancelEnrollment(ctx context.Context, tenant *models.Tenant, id uint) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.events.FindByTenantAndID(ctx, tenant.ID, enrollment.EventID); err != nil {
		return nil, ErrNotFound
	}
	enrollment.Status = models.EnrollmentStatusCancelled
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}
