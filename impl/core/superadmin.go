package core

import (
	"context"
	"fmt"

	"edudesk/entity"
)

// Dashboard returns the reporting summary over all active schools.
func (c *Core) Dashboard(ctx context.Context) (*entity.DashboardSummary, error) {
	if c.dashboard == nil {
		return nil, fmt.Errorf("dashboard service not set")
	}
	return c.dashboard.Summary(ctx)
}

// ActivateTrial creates a trial subscription for a school.
func (c *Core) ActivateTrial(ctx context.Context, schoolID string) (*entity.Subscription, error) {
	if c.subscriptions == nil {
		return nil, fmt.Errorf("subscription service not set")
	}

	trial, err := c.subscriptions.ActivateTrial(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	if c.notifier != nil {
		c.notifier.TrialActivated(trial)
	}

	return trial, nil
}

// GetSchools lists schools filtered by "active", "inactive" or "all".
func (c *Core) GetSchools(ctx context.Context, status string) ([]entity.School, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository not set")
	}
	return c.repo.GetAllSchools(ctx, status)
}

// SetSchoolActive flips the active flag; soft delete is active=false.
func (c *Core) SetSchoolActive(ctx context.Context, id string, active bool) error {
	if c.repo == nil {
		return fmt.Errorf("repository not set")
	}
	return c.repo.SetSchoolActive(ctx, id, active)
}

// DeleteSchool removes a school record entirely.
func (c *Core) DeleteSchool(ctx context.Context, id string) error {
	if c.repo == nil {
		return fmt.Errorf("repository not set")
	}
	return c.repo.DeleteSchool(ctx, id)
}
