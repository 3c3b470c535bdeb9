package services

import "errors"

// Failure taxonomy shared by all services. Handlers map these to HTTP
// statuses; anything else is a 500 with a generic body.
var (
	// ErrInvalidCredentials covers every authentication failure: bad
	// password, unknown user, inactive user, invalid or cross-tenant token.
	// Keeping it uniform prevents account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenRevoked is returned when an already-revoked refresh token is
	// presented again (double use or lost rotation race).
	ErrTokenRevoked = errors.New("refresh token revoked")

	// ErrEmailTaken is returned on duplicate email within a tenant.
	ErrEmailTaken = errors.New("email already registered for this tenant")

	// ErrLastAdmin is returned when a role change would leave the tenant
	// with no admin.
	ErrLastAdmin = errors.New("cannot remove the last admin of the tenant")

	// ErrUnknownRoles is returned when a role name outside the fixed
	// vocabulary is requested.
	ErrUnknownRoles = errors.New("unknown role names")

	// ErrPasswordPolicy is returned when a password is outside the 8-128
	// character policy.
	ErrPasswordPolicy = errors.New("password must be between 8 and 128 characters")

	// ErrNotFound is returned when a tenant-scoped record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyEnrolled is returned when a student is enrolled twice into
	// the same event.
	ErrAlreadyEnrolled = errors.New("student already enrolled in this event")

	// ErrEventMismatch is returned when a gate scan references a day that
	// does not belong to the enrollment's event.
	ErrEventMismatch = errors.New("enrollment and day belong to different events")

	// ErrOutOfWindow is returned when a gate scan falls outside the allowed
	// time window for the day.
	ErrOutOfWindow = errors.New("scan outside the allowed window")

	// ErrInvalidAction is returned for gate actions other than checkin and
	// checkout.
	ErrInvalidAction = errors.New("invalid gate action")

	// ErrInvalidTimestamp is returned when a scan carries a ts override that
	// is not a valid RFC 3339 value.
	ErrInvalidTimestamp = errors.New("timestamp must be a valid RFC 3339 value")

	// ErrInvalidSchedule is returned when an event day carries start or end
	// times outside the HH:MM wall-clock format.
	ErrInvalidSchedule = errors.New("day times must use the HH:MM 24-hour format")
)
