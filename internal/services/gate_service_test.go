package services

import (
	"context"
	"testing"
	"time"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateFixture struct {
	svc        *GateService
	tenant     *models.Tenant
	enrollment *models.Enrollment
	day        *models.EventDay
}

// setupGate builds a tenant with one event scheduled 09:00-17:00 local time
// on 2025-06-10 and one enrolled student. The service clock is controllable
// through the returned setter.
func setupGate(t *testing.T) (*gateFixture, func(time.Time)) {
	t.Helper()
	setupDB(t)
	ctx := context.Background()

	tenant := createTenant(t, "acme")
	events := repository.NewEventRepository()
	students := repository.NewStudentRepository()
	enrollments := repository.NewEnrollmentRepository()

	event := &models.Event{TenantID: tenant.ID, Title: "Tech Week", Status: models.EventStatusPublished}
	require.NoError(t, events.Create(ctx, event))

	day := &models.EventDay{
		EventID:   event.ID,
		Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "17:00",
	}
	require.NoError(t, events.AddDay(ctx, day))

	student := &models.Student{TenantID: tenant.ID, Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, students.Create(ctx, student))
	enrollment := &models.Enrollment{StudentID: student.ID, EventID: event.ID}
	require.NoError(t, enrollments.Create(ctx, enrollment))

	location, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	svc := NewGateService(enrollments, events, location, 15, 30)
	setClock := func(now time.Time) { svc.now = func() time.Time { return now } }

	return &gateFixture{svc: svc, tenant: tenant, enrollment: enrollment, day: day}, setClock
}

// localTime builds an instant on the event day in the gate timezone.
func localTime(t *testing.T, hour, min int) time.Time {
	t.Helper()
	location, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return time.Date(2025, 6, 10, hour, min, 0, 0, location)
}

func TestGateScanCheckinWithinWindow(t *testing.T) {
	fx, setClock := setupGate(t)
	ctx := context.Background()
	setClock(localTime(t, 9, 30))

	result, err := fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   fx.day.ID,
		Action:       GateActionCheckin,
	})
	require.NoError(t, err)
	assert.Equal(t, GateActionCheckin, result.Action)
	assert.True(t, result.WindowStart.Before(result.ScannedAt))
	assert.True(t, result.WindowEnd.After(result.ScannedAt))

	att, err := repository.NewEnrollmentRepository().FindAttendance(ctx, fx.enrollment.ID, fx.day.ID)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.NotNil(t, att.CheckinAt)
	assert.Nil(t, att.CheckoutAt)
}

func TestGateScanTolerances(t *testing.T) {
	fx, setClock := setupGate(t)
	ctx := context.Background()

	cases := []struct {
		name string
		at   time.Time
		ok   bool
	}{
		{"just inside early tolerance", localTime(t, 8, 50), true},
		{"too early", localTime(t, 8, 30), false},
		{"just inside late tolerance", localTime(t, 17, 20), true},
		{"too late", localTime(t, 17, 45), false},
		{"previous day", localTime(t, 9, 30).AddDate(0, 0, -1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setClock(tc.at)
			_, err := fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
				EnrollmentID: fx.enrollment.ID,
				EventDayID:   fx.day.ID,
				Action:       GateActionCheckin,
			})
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrOutOfWindow)
			}
		})
	}
}

func TestGateScanCheckoutUpsertsSameRow(t *testing.T) {
	fx, setClock := setupGate(t)
	ctx := context.Background()

	setClock(localTime(t, 9, 0))
	_, err := fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   fx.day.ID,
		Action:       GateActionCheckin,
	})
	require.NoError(t, err)

	setClock(localTime(t, 17, 0))
	_, err = fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   fx.day.ID,
		Action:       GateActionCheckout,
	})
	require.NoError(t, err)

	att, err := repository.NewEnrollmentRepository().FindAttendance(ctx, fx.enrollment.ID, fx.day.ID)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.NotNil(t, att.CheckinAt)
	assert.NotNil(t, att.CheckoutAt)
	assert.True(t, att.CheckoutAt.After(*att.CheckinAt))
}

func TestGateScanExplicitTimestamp(t *testing.T) {
	fx, setClock := setupGate(t)
	ctx := context.Background()
	// Wall clock far away; the explicit timestamp decides.
	setClock(localTime(t, 23, 0))

	_, err := fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   fx.day.ID,
		Action:       GateActionCheckin,
		Timestamp:    localTime(t, 10, 0).Format(time.RFC3339),
	})
	assert.NoError(t, err)

	_, err = fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   fx.day.ID,
		Action:       GateActionCheckin,
		Timestamp:    "yesterday at noon",
	})
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestManualCheckinIgnoresWindow(t *testing.T) {
	fx, setClock := setupGate(t)
	ctx := context.Background()
	// Deep night, far outside any gate window.
	setClock(localTime(t, 3, 0))

	att, err := fx.svc.ManualCheckin(ctx, fx.tenant, fx.enrollment.ID, fx.day.ID, "")
	require.NoError(t, err)
	require.NotNil(t, att.CheckinAt)
	assert.Equal(t, models.AttendanceOriginAPI, att.Origin)

	// A second check-in keeps the original stamp.
	first := *att.CheckinAt
	setClock(localTime(t, 4, 0))
	att, err = fx.svc.ManualCheckin(ctx, fx.tenant, fx.enrollment.ID, fx.day.ID, "")
	require.NoError(t, err)
	assert.True(t, att.CheckinAt.Equal(first))
}

func TestManualCheckoutRequiresAttendance(t *testing.T) {
	fx, setClock := setupGate(t)
	ctx := context.Background()
	setClock(localTime(t, 10, 0))

	_, err := fx.svc.ManualCheckout(ctx, fx.tenant, fx.enrollment.ID, fx.day.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fx.svc.ManualCheckin(ctx, fx.tenant, fx.enrollment.ID, fx.day.ID, models.AttendanceOriginOfflineSync)
	require.NoError(t, err)

	setClock(localTime(t, 18, 0))
	att, err := fx.svc.ManualCheckout(ctx, fx.tenant, fx.enrollment.ID, fx.day.ID)
	require.NoError(t, err)
	require.NotNil(t, att.CheckoutAt)
	assert.True(t, att.CheckoutAt.After(*att.CheckinAt))
	assert.Equal(t, models.AttendanceOriginOfflineSync, att.Origin)
}

func TestAttendanceLookup(t *testing.T) {
	fx, setClock := setupGate(t)
	ctx := context.Background()

	_, err := fx.svc.Attendance(ctx, fx.tenant, fx.enrollment.ID, fx.day.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	setClock(localTime(t, 9, 30))
	_, err = fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   fx.day.ID,
		Action:       GateActionCheckin,
	})
	require.NoError(t, err)

	att, err := fx.svc.Attendance(ctx, fx.tenant, fx.enrollment.ID, fx.day.ID)
	require.NoError(t, err)
	assert.NotNil(t, att.CheckinAt)
	assert.Nil(t, att.CheckoutAt)

	// Reads are tenant scoped like every other gate operation.
	foreign := createTenant(t, "other")
	_, err = fx.svc.Attendance(ctx, foreign, fx.enrollment.ID, fx.day.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGateScanValidation(t *testing.T) {
	fx, setClock := setupGate(t)
	ctx := context.Background()
	setClock(localTime(t, 10, 0))

	// Day belonging to another event.
	events := repository.NewEventRepository()
	otherEvent := &models.Event{TenantID: fx.tenant.ID, Title: "Other", Status: models.EventStatusPublished}
	require.NoError(t, events.Create(ctx, otherEvent))
	otherDay := &models.EventDay{EventID: otherEvent.ID, Date: fx.day.Date, StartTime: "09:00", EndTime: "17:00"}
	require.NoError(t, events.AddDay(ctx, otherDay))

	_, err := fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   otherDay.ID,
		Action:       GateActionCheckin,
	})
	assert.ErrorIs(t, err, ErrEventMismatch)

	_, err = fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   fx.day.ID,
		Action:       "teleport",
	})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = fx.svc.Scan(ctx, fx.tenant, &ScanRequest{
		EnrollmentID: 99999,
		EventDayID:   fx.day.ID,
		Action:       GateActionCheckin,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Enrollment reachable only through its own tenant.
	foreign := createTenant(t, "other")
	_, err = fx.svc.Scan(ctx, foreign, &ScanRequest{
		EnrollmentID: fx.enrollment.ID,
		EventDayID:   fx.day.ID,
		Action:       GateActionCheckin,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
