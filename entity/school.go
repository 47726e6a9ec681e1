package entity

import (
	"time"

	"github.com/google/uuid"
)

// Address holds the postal address collected on the last wizard step.
type Address struct {
	Line       string `json:"line" bson:"line"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
}

// Geo is a point on the map picked during registration.
type Geo struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// School is the persisted school record created at wizard submission.
type School struct {
	ID             string    `json:"id" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	Active         bool      `json:"active" bson:"active"`
	Address        Address   `json:"address" bson:"address"`
	Location       Geo       `json:"location" bson:"location"`
	AdminUserID    string    `json:"admin_user_id" bson:"admin_user_id"`
	AcademicYear   string    `json:"academic_year" bson:"academic_year"`
	OperatingHours string    `json:"operating_hours" bson:"operating_hours"`
	MobileVerified bool      `json:"mobile_verified" bson:"mobile_verified"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// NewSchool creates a new School entity.
func NewSchool(name string, addr Address, loc Geo) *School {
	return &School{
		ID:        uuid.NewString(),
		Name:      name,
		Active:    true,
		Address:   addr,
		Location:  loc,
		CreatedAt: time.Now(),
	}
}

// IsActive checks if the school is active.
func (s *School) IsActive() bool {
	return s.Active
}
