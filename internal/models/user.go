package models

import (
	"time"
)

// User statuses. Anything other than active fails authentication.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is a staff account scoped to a single tenant. The password credential
// is an opaque hash blob whose algorithm is identifiable from its prefix.
type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID       uint      `gorm:"not null;index;uniqueIndex:uq_user_email_tenant" json:"tenant_id"`
	Name           string    `gorm:"type:varchar(120)" json:"name"`
	Email          string    `gorm:"type:varchar(160);not null;uniqueIndex:uq_user_email_tenant" json:"email"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	Status         string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	Roles          []Role    `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// RoleNames returns the user's role names.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasAnyRole checks if the user's role set intersects the given set.
// An empty role set on the user never passes.
func (u *User) HasAnyRole(roles ...RoleName) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if RoleName(have.Name) == want {
				return true
			}
		}
	}
	return false
}

// HighestRole returns the highest-ranked role the user holds, false when the
// user has no valid roles.
func (u *User) HighestRole() (RoleName, bool) {
	var best RoleName
	for _, r := range u.Roles {
		name := RoleName(r.Name)
		if !name.IsValid() {
			continue
		}
		if best == "" || name.Rank() > best.Rank() {
			best = name
		}
	}
	return best, best != ""
}

// IsAtLeast checks if the user's highest-ranked role meets the minimum level.
func (u *User) IsAtLeast(min RoleName) bool {
	best, ok := u.HighestRole()
	if !ok {
		return false
	}
	return best.IsAtLeast(min)
}
