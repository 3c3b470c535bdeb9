package models

import "time"

// AuditLog is an append-only record of security-relevant actions (logins,
// role changes, tenant updates).
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  uint           `gorm:"index" json:"tenant_id"`
	UserID    uint           `gorm:"index" json:"user_id,omitempty"`
	Entity    string         `gorm:"type:varchar(50);not null" json:"entity"`
	EntityID  uint           `json:"entity_id"`
	Action    string         `gorm:"type:varchar(30);not null;index" json:"action"`
	Diff      map[string]any `gorm:"serializer:json" json:"diff,omitempty"`
	IPAddress string         `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
