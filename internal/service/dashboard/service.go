package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"edudesk/entity"
	"edudesk/internal/lib/sl"
)

// ErrUnavailable is returned when the aggregation failed or timed out.
// Callers must surface it as "data unavailable", never as zero schools.
var ErrUnavailable = errors.New("dashboard data unavailable")

const (
	unknownAdmin   = "Unknown"
	noPlan         = "none"
	inactiveStatus = "inactive"
)

// Repository defines the read operations the dashboard needs.
type Repository interface {
	CountActiveSchools(ctx context.Context) (int64, error)
	DashboardRows(ctx context.Context) ([]entity.SchoolJoin, error)
}

// Service computes the superadmin reporting summary.
type Service struct {
	repo    Repository
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

func NewDashboardService(repo Repository, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		timeout: timeout,
		now:     time.Now,
		log:     logger.With(sl.Module("dashboard service")),
	}
}

// Summary aggregates all active schools with their admin and current
// subscription. With zero eligible schools the join is skipped entirely.
// The whole query is bounded by a hard timeout; on timeout or any
// aggregation error the caller gets ErrUnavailable, never a partial
// result.
func (s *Service) Summary(ctx context.Context) (*entity.DashboardSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.repo.CountActiveSchools(ctx)
	if err != nil {
		s.log.With(sl.Err(err)).Error("count active schools")
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	if count == 0 {
		return entity.EmptySummary(), nil
	}

	rows, err := s.repo.DashboardRows(ctx)
	if err != nil {
		s.log.With(sl.Err(err)).Error("dashboard aggregation")
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	now := s.now()
	summary := entity.EmptySummary()
	summary.TotalSchools = len(rows)

	for _, row := range rows {
		report := entity.SchoolReport{
			SchoolID:   row.School.ID,
			SchoolName: row.School.Name,
			AdminName:  unknownAdmin,
			PlanType:   noPlan,
			Status:     inactiveStatus,
			CreatedAt:  row.School.CreatedAt,
		}
		if len(row.Admins) > 0 {
			report.AdminName = row.Admins[0].Name
		}

		if current := entity.CurrentSubscription(row.Subscriptions); current != nil {
			report.PlanType = current.PlanType
			report.Status = current.Status
			report.ExpiresAt = current.ExpiresAt
			report.DaysRemaining = current.DaysRemaining(now)
			report.IsTrial = current.IsTrial()
			report.Revenue = current.FinalAmount
		}

		if report.Status == entity.SubscriptionActive && report.DaysRemaining > 0 {
			if report.IsTrial {
				summary.ActiveTrials++
			} else {
				summary.ActivePaid++
			}
		}
		// Revenue is summed across all rows, not just active ones;
		// expired subscriptions still count their final amount.
		summary.TotalRevenue += report.Revenue

		summary.Schools = append(summary.Schools, report)
	}

	return summary, nil
}
