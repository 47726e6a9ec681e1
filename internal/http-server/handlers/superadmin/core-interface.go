package superadmin

import (
	"context"

	"edudesk/entity"
)

type Core interface {
	Dashboard(ctx context.Context) (*entity.DashboardSummary, error)
	ActivateTrial(ctx context.Context, schoolID string) (*entity.Subscription, error)
	GetSchools(ctx context.Context, status string) ([]entity.School, error)
	SetSchoolActive(ctx context.Context, id string, active bool) error
	DeleteSchool(ctx context.Context, id string) error
}
