package models

import "strings"

// RoleName is one of the four fixed roles understood by the authorization
// layer. Roles form a total order used for minimum-rank checks:
// aluno < portaria < organizer < admin.
type RoleName string

const (
	RoleAluno     RoleName = "aluno"
	RolePortaria  RoleName = "portaria"
	RoleOrganizer RoleName = "organizer"
	RoleAdmin     RoleName = "admin"
)

var roleRanks = map[RoleName]int{
	RoleAluno:     1,
	RolePortaria:  2,
	RoleOrganizer: 3,
	RoleAdmin:     4,
}

// IsValid checks if the role is one of the predefined valid roles
func (r RoleName) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the position of the role in the hierarchy, 0 if unknown.
func (r RoleName) Rank() int {
	return roleRanks[r]
}

// IsAtLeast checks if this role meets the minimum required level
func (r RoleName) IsAtLeast(min RoleName) bool {
	rank, ok := roleRanks[r]
	if !ok {
		return false
	}
	minRank, ok := roleRanks[min]
	if !ok {
		return false
	}
	return rank >= minRank
}

// AllRoles returns the predefined roles in hierarchical order
func AllRoles() []RoleName {
	return []RoleName{RoleAluno, RolePortaria, RoleOrganizer, RoleAdmin}
}

// ParseRole safely parses a string into a RoleName
func ParseRole(s string) (RoleName, bool) {
	role := RoleName(strings.ToLower(strings.TrimSpace(s)))
	return role, role.IsValid()
}

// Role is a persisted role assignment target. The vocabulary is fixed; rows
// are seeded at startup and linked to users through the user_roles table.
type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
}

// TableName overrides the table name
func (Role) TableName() string {
	return "roles"
}
