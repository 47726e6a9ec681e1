package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	AdminRole      = "admin"
	SuperadminRole = "superadmin"
)

// User is a school staff account. Exactly one admin user is created
// per school during registration.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name" validate:"omitempty"`
	Username  string    `json:"username" bson:"username" validate:"omitempty"`
	Email     string    `json:"email" bson:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone" bson:"phone" validate:"omitempty"`
	Role      string    `json:"role" bson:"role" validate:"omitempty"`
	SchoolID  string    `json:"school_id" bson:"school_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewAdmin creates the admin user attached to a freshly registered school.
func NewAdmin(name, username, email, phone, schoolID string) *User {
	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		Username:  username,
		Email:     email,
		Phone:     phone,
		Role:      AdminRole,
		SchoolID:  schoolID,
		CreatedAt: time.Now(),
	}
}

// IsAdmin checks if the user holds the school admin role.
func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}
