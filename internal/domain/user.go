package domain

import "time"

// User is a registered caller, identified by ORCID id.
type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	FirstName   string    `gorm:"column:first_name" json:"first_name"`
	LastName    string    `gorm:"column:last_name" json:"last_name"`
	Email       *string   `gorm:"column:email" json:"email,omitempty"`
	IsActive    bool      `gorm:"not null;column:is_active" json:"is_active"`
	IsStaff     bool      `gorm:"not null;column:is_staff" json:"is_staff"`
	IsSuperuser bool      `gorm:"not null;column:is_superuser" json:"is_superuser"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }
