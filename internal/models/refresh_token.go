package models

import "time"

// RefreshToken tracks an issued refresh token so it can be revoked or
// rotated. Rows are never deleted; revocation sets revoked_at.
type RefreshToken struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	JTI        string     `gorm:"column:jti;type:varchar(64);uniqueIndex;not null" json:"jti"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	TenantSlug string     `gorm:"type:varchar(64);not null;index" json:"tenant_slug"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName overrides the table name
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
