package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudesk/entity"
)

func TestNewTrial(t *testing.T) {
	trial := entity.NewTrial("school-1")

	assert.Equal(t, "school-1", trial.SchoolID)
	assert.Equal(t, entity.PlanTrial, trial.PlanType)
	assert.Equal(t, entity.SubscriptionActive, trial.Status)
	assert.Equal(t, 1, trial.Priority)
	assert.Equal(t, entity.TrialMessageLimit, trial.MessageLimit)
	assert.Zero(t, trial.FinalAmount)
	assert.True(t, trial.IsTrial())
	assert.Equal(t, entity.TrialDurationDays, trial.DaysRemaining(time.Now()))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      int
	}{
		{"partial day rounds up", now.Add(6 * time.Hour), 1},
		{"exactly half a day past a full day", now.Add(36 * time.Hour), 2},
		{"full fourteen days", now.AddDate(0, 0, 14), 14},
		{"expires this instant", now, 0},
		{"already expired", now.AddDate(0, 0, -3), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := entity.Subscription{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, sub.DaysRemaining(now))
		})
	}
}

func TestCurrentSubscription(t *testing.T) {
	now := time.Now()

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, entity.CurrentSubscription(nil))
	})

	t.Run("priority beats expiry", func(t *testing.T) {
		subs := []entity.Subscription{
			{ID: "trial", Priority: 1, ExpiresAt: now.AddDate(0, 0, 14)},
			{ID: "paid", Priority: 2, ExpiresAt: now.AddDate(0, 0, 7)},
		}
		current := entity.CurrentSubscription(subs)
		require.NotNil(t, current)
		assert.Equal(t, "paid", current.ID)
	})

	t.Run("tie broken by latest expiry", func(t *testing.T) {
		subs := []entity.Subscription{
			{ID: "short", Priority: 2, ExpiresAt: now.AddDate(0, 0, 7)},
			{ID: "long", Priority: 2, ExpiresAt: now.AddDate(0, 0, 30)},
		}
		current := entity.CurrentSubscription(subs)
		require.NotNil(t, current)
		assert.Equal(t, "long", current.ID)
	})
}
