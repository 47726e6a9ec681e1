package entity

import "time"

// SchoolJoin is one raw row of the reporting aggregation: a school with
// its looked-up admin users (at most one, stable first-by-creation) and
// all of its subscription records.
type SchoolJoin struct {
	School        School         `bson:",inline"`
	Admins        []User         `bson:"admin"`
	Subscriptions []Subscription `bson:"subs"`
}

// SchoolReport is one dashboard row: a school joined to its admin user
// and its current subscription, with derived fields computed at read time.
type SchoolReport struct {
	SchoolID      string    `json:"school_id"`
	SchoolName    string    `json:"school_name"`
	AdminName     string    `json:"admin_name"`
	PlanType      string    `json:"plan_type"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
	DaysRemaining int       `json:"days_remaining"`
	IsTrial       bool      `json:"is_trial"`
	Revenue       float64   `json:"revenue"`
	CreatedAt     time.Time `json:"created_at"`
}

// DashboardSummary is the superadmin dashboard response body.
type DashboardSummary struct {
	Schools      []SchoolReport `json:"schools"`
	TotalSchools int            `json:"totalSchools"`
	ActiveTrials int            `json:"activeTrials"`
	ActivePaid   int            `json:"activePaid"`
	TotalRevenue float64        `json:"totalRevenue"`
}

// EmptySummary is the legitimate zero-schools response. An error or
// timeout never reuses it; those surface as an error response so callers
// can tell "no schools" from "data unavailable".
func EmptySummary() *DashboardSummary {
	return &DashboardSummary{Schools: []SchoolReport{}}
}
