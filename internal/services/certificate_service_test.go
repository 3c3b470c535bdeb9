package services

import (
	"context"
	"testing"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateIssueAndVerify(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	events := testEventService()
	svc := NewCertificateService(
		repository.NewCertificateRepository(),
		repository.NewEnrollmentRepository(),
		repository.NewEventRepository(),
	)

	acme := createTenant(t, "acme")
	other := createTenant(t, "other")

	event := &models.Event{Title: "Tech Week"}
	require.NoError(t, events.CreateEvent(ctx, acme, event))
	student := &models.Student{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, events.CreateStudent(ctx, acme, student))
	enrollment, err := events.Enroll(ctx, acme, event.ID, student.ID)
	require.NoError(t, err)

	cert, err := svc.Issue(ctx, acme, enrollment.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.VerifyCode)
	assert.Equal(t, models.CertificateStatusIssued, cert.Status)
	assert.False(t, cert.IssuedAt.IsZero())

	found, err := svc.Verify(ctx, acme, cert.VerifyCode)
	require.NoError(t, err)
	assert.Equal(t, cert.ID, found.ID)

	// Verification is tenant scoped, like everything else.
	_, err = svc.Verify(ctx, other, cert.VerifyCode)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Verify(ctx, acme, "no-such-code")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Issue(ctx, other, enrollment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Issue(ctx, acme, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}
