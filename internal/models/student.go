package models

import "time"

// Student is an event participant registered under a tenant. Students are not
// login accounts; they exist to be enrolled and checked in.
type Student struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  uint      `gorm:"not null;index;uniqueIndex:uq_student_email_tenant" json:"tenant_id"`
	Name      string    `gorm:"type:varchar(160);not null" json:"name"`
	CPF       string    `gorm:"type:varchar(14)" json:"cpf,omitempty"`
	Email     string    `gorm:"type:varchar(160);not null;uniqueIndex:uq_student_email_tenant" json:"email"`
	RA        string    `gorm:"type:varchar(40)" json:"ra,omitempty"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Student) TableName() string {
	return "students"
}
