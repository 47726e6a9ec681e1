package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	PlanTrial = "trial"
	PlanPaid  = "paid"

	SubscriptionPending = "pending"
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

const (
	// TrialDurationDays is the fixed length of a superadmin-activated trial.
	TrialDurationDays = 14
	// TrialMessageLimit is the low fixed message allowance granted to trials.
	TrialMessageLimit = 100
)

// Subscription is a plan attached to a school. A school may accumulate
// several records over time; the effective one is picked by priority,
// tie-broken by the latest expiry.
type Subscription struct {
	ID           string    `json:"id" bson:"_id"`
	SchoolID     string    `json:"school_id" bson:"school_id"`
	PlanType     string    `json:"plan_type" bson:"plan_type"`
	Status       string    `json:"status" bson:"status"`
	ExpiresAt    time.Time `json:"expires_at" bson:"expires_at"`
	Priority     int       `json:"priority" bson:"priority"`
	MessageLimit int       `json:"message_limit" bson:"message_limit"`
	UsageResetAt time.Time `json:"usage_reset_at" bson:"usage_reset_at"`
	FinalAmount  float64   `json:"final_amount" bson:"final_amount"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// NewTrial creates the fixed 14-day zero-cost trial subscription.
func NewTrial(schoolID string) *Subscription {
	now := time.Now()
	return &Subscription{
		ID:           uuid.NewString(),
		SchoolID:     schoolID,
		PlanType:     PlanTrial,
		Status:       SubscriptionActive,
		ExpiresAt:    now.AddDate(0, 0, TrialDurationDays),
		Priority:     1,
		MessageLimit: TrialMessageLimit,
		UsageResetAt: now,
		FinalAmount:  0,
		CreatedAt:    now,
	}
}

// IsTrial checks if the subscription is a trial plan.
func (s *Subscription) IsTrial() bool {
	return s.PlanType == PlanTrial
}

// DaysRemaining is derived, never stored: the ceiling of the time left
// until expiry in days, floored at zero for already-expired records.
func (s *Subscription) DaysRemaining(now time.Time) int {
	left := s.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// CurrentSubscription picks the effective subscription out of all records
// a school holds: highest priority wins, ties broken by the latest expiry.
// Returns nil for an empty slice.
func CurrentSubscription(subs []Subscription) *Subscription {
	var current *Subscription
	for i := range subs {
		s := &subs[i]
		if current == nil {
			current = s
			continue
		}
		if s.Priority > current.Priority {
			current = s
			continue
		}
		if s.Priority == current.Priority && s.ExpiresAt.After(current.ExpiresAt) {
			current = s
		}
	}
	return current
}
