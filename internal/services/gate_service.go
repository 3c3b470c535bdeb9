package services

import (
	"context"
	"time"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
)

// Gate scan actions
const (
	GateActionCheckin  = "checkin"
	GateActionCheckout = "checkout"
)

// ScanRequest is a gate check-in/check-out request
type ScanRequest struct {
	EnrollmentID uint   `json:"enrollment_id"`
	EventDayID   uint   `json:"event_day_id"`
	Action       string `json:"action"`
	DeviceID     string `json:"device_id,omitempty"`
	// Timestamp is an optional ISO-8601 override, used by offline sync and
	// tests. Empty means now.
	Timestamp string `json:"ts,omitempty"`
}

// ScanResult describes an accepted scan
type ScanResult struct {
	EnrollmentID uint      `json:"enrollment_id"`
	EventDayID   uint      `json:"event_day_id"`
	Action       string    `json:"action"`
	ScannedAt    time.Time `json:"scanned_at"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
}

// GateService validates and records gate scans against the configured
// attendance window.
type GateService struct {
	enrollments *repository.EnrollmentRepository
	events      *repository.EventRepository
	location    *time.Location
	earlyMin    int
	lateMin     int
	now         func() time.Time
}

// NewGateService creates a new gate service
func NewGateService(
	enrollments *repository.EnrollmentRepository,
	events *repository.EventRepository,
	location *time.Location,
	earlyMin, lateMin int,
) *GateService {
	return &GateService{
		enrollments: enrollments,
		events:      events,
		location:    location,
		earlyMin:    earlyMin,
		lateMin:     lateMin,
		now:         time.Now,
	}
}

// Scan upserts the attendance row for (enrollment, day) when the scan falls
// within the allowed window. Both the enrollment's event and the day must
// belong to the tenant.
func (s *GateService) Scan(ctx context.Context, tenant *models.Tenant, req *ScanRequest) (*ScanResult, error) {
	enrollment, day, err := s.scopedPair(ctx, tenant, req.EnrollmentID, req.EventDayID)
	if err != nil {
		return nil, err
	}

	scannedAt, err := s.parseTimestamp(req.Timestamp)
	if err != nil {
		return nil, ErrInvalidTimestamp
	}

	windowStart, windowEnd, err := s.window(day)
	if err != nil {
		return nil, err
	}
	if scannedAt.Before(windowStart) || scannedAt.After(windowEnd) {
		return nil, ErrOutOfWindow
	}

	att, err := s.enrollments.FindAttendance(ctx, enrollment.ID, day.ID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		att = &models.Attendance{
			EnrollmentID: enrollment.ID,
			EventDayID:   day.ID,
			Origin:       models.AttendanceOriginGate,
		}
	}

	switch req.Action {
	case GateActionCheckin:
		att.CheckinAt = &scannedAt
	case GateActionCheckout:
		att.CheckoutAt = &scannedAt
	default:
		return nil, ErrInvalidAction
	}
	if req.DeviceID != "" {
		att.Origin = models.AttendanceOriginGate
	}

	if err := s.enrollments.SaveAttendance(ctx, att); err != nil {
		return nil, err
	}

	return &ScanResult{
		EnrollmentID: enrollment.ID,
		EventDayID:   day.ID,
		Action:       req.Action,
		ScannedAt:    scannedAt,
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
	}, nil
}

// ManualCheckin records a check-in outside the gate flow (front desk,
// offline sync). No window validation; a check-in that already exists is
// left untouched.
func (s *GateService) ManualCheckin(ctx context.Context, tenant *models.Tenant, enrollmentID, dayID uint, origin string) (*models.Attendance, error) {
	enrollment, day, err := s.scopedPair(ctx, tenant, enrollmentID, dayID)
	if err != nil {
		return nil, err
	}

	att, err := s.enrollments.FindAttendance(ctx, enrollment.ID, day.ID)
	if err != nil {
		return nil, err
	}
	if origin == "" {
		origin = models.AttendanceOriginAPI
	}
	now := s.now().UTC()
	if att == nil {
		att = &models.Attendance{
			EnrollmentID: enrollment.ID,
			EventDayID:   day.ID,
			Origin:       origin,
			CheckinAt:    &now,
		}
	} else if att.CheckinAt == nil {
		att.CheckinAt = &now
	}

	if err := s.enrollments.SaveAttendance(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// ManualCheckout stamps the check-out on an existing attendance row. Unlike
// check-in it never creates the row; ErrNotFound without a prior check-in.
func (s *GateService) ManualCheckout(ctx context.Context, tenant *models.Tenant, enrollmentID, dayID uint) (*models.Attendance, error) {
	enrollment, day, err := s.scopedPair(ctx, tenant, enrollmentID, dayID)
	if err != nil {
		return nil, err
	}

	att, err := s.enrollments.FindAttendance(ctx, enrollment.ID, day.ID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, ErrNotFound
	}
	now := s.now().UTC()
	att.CheckoutAt = &now

	if err := s.enrollments.SaveAttendance(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// Attendance retrieves the recorded attendance row for (enrollment, day).
func (s *GateService) Attendance(ctx context.Context, tenant *models.Tenant, enrollmentID, dayID uint) (*models.Attendance, error) {
	enrollment, day, err := s.scopedPair(ctx, tenant, enrollmentID, dayID)
	if err != nil {
		return nil, err
	}

	att, err := s.enrollments.FindAttendance(ctx, enrollment.ID, day.ID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, ErrNotFound
	}
	return att, nil
}

// scopedPair loads the enrollment and day, scoping both to the tenant
// through the enrollment's event.
func (s *GateService) scopedPair(ctx context.Context, tenant *models.Tenant, enrollmentID, dayID uint) (*models.Enrollment, *models.EventDay, error) {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	if _, err := s.events.FindByTenantAndID(ctx, tenant.ID, enrollment.EventID); err != nil {
		return nil, nil, ErrNotFound
	}
	day, err := s.events.FindDay(ctx, dayID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	if day.EventID != enrollment.EventID {
		return nil, nil, ErrEventMismatch
	}
	return enrollment, day, nil
}

func (s *GateService) parseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return s.now().UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

// window combines the day's date and wall-clock times in the configured
// timezone, widened by the early/late tolerances. Days crossing midnight
// extend into the next calendar day.
func (s *GateService) window(day *models.EventDay) (time.Time, time.Time, error) {
	start, err := combine(day.Date, day.StartTime, s.location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := combine(day.Date, day.EndTime, s.location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}

	start = start.Add(-time.Duration(s.earlyMin) * time.Minute)
	end = end.Add(time.Duration(s.lateMin) * time.Minute)
	return start.UTC(), end.UTC(), nil
}

func combine(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
