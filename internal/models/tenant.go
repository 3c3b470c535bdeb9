package models

import (
	"time"
)

// Tenant represents an isolated customer organization. Every user, student
// and event belongs to exactly one tenant; the slug is the public lookup key
// used in URLs and token claims.
type Tenant struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"type:varchar(160);not null" json:"name"`
	CNPJ         string         `gorm:"type:varchar(20)" json:"cnpj,omitempty"`
	Slug         string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"slug"`
	LogoURL      string         `gorm:"type:varchar(255)" json:"logo_url,omitempty"`
	ContactEmail string         `gorm:"type:varchar(160)" json:"contact_email,omitempty"`
	ContactPhone string         `gorm:"type:varchar(30)" json:"contact_phone,omitempty"`
	Config       map[string]any `gorm:"serializer:json" json:"config,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName overrides the table name
func (Tenant) TableName() string {
	return "tenants"
}
