package models

import "time"

// Attendance origins
const (
	AttendanceOriginGate        = "gate"
	AttendanceOriginAPI         = "api"
	AttendanceOriginOfflineSync = "offline_sync"
)

// Attendance records the check-in/check-out pair for an enrollment on one
// event day. One row per (enrollment, day); scans upsert into it.
type Attendance struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EnrollmentID uint       `gorm:"not null;uniqueIndex:uq_attendance_unique" json:"enrollment_id"`
	EventDayID   uint       `gorm:"not null;index;uniqueIndex:uq_attendance_unique" json:"event_day_id"`
	CheckinAt    *time.Time `json:"checkin_at,omitempty"`
	CheckoutAt   *time.Time `json:"checkout_at,omitempty"`
	Origin       string     `gorm:"type:varchar(20);not null;default:gate" json:"origin"`
}

// TableName overrides the table name
func (Attendance) TableName() string {
	return "attendances"
}
