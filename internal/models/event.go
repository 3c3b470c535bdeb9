package models

import "time"

// Event statuses
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusClosed    = "closed"
)

// Event is a tenant-scoped event with one or more scheduled days.
type Event struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID       uint       `gorm:"not null;index" json:"tenant_id"`
	Title          string     `gorm:"type:varchar(200);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	Venue          string     `gorm:"type:varchar(160)" json:"venue,omitempty"`
	CapacityTotal  int        `json:"capacity_total,omitempty"`
	WorkloadHours  int        `json:"workload_hours,omitempty"`
	MinPresencePct int        `json:"min_presence_pct,omitempty"`
	StartAt        *time.Time `json:"start_at,omitempty"`
	EndAt          *time.Time `json:"end_at,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	Days           []EventDay `gorm:"foreignKey:EventID" json:"days,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (Event) TableName() string {
	return "events"
}

// EventDay is one scheduled day of an event. StartTime and EndTime are local
// wall-clock values ("15:04"); the gate service combines them with Date in the
// configured timezone.
type EventDay struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Room      string    `gorm:"type:varchar(80)" json:"room,omitempty"`
	Capacity  int       `json:"capacity,omitempty"`
}

// TableName overrides the table name
func (EventDay) TableName() string {
	return "event_days"
}
