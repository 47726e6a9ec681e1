package dashboard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudesk/entity"
	"edudesk/internal/service/dashboard"
)

type fakeRepo struct {
	count     int64
	countErr  error
	rows      []entity.SchoolJoin
	rowsErr   error
	rowsCalls int
}

func (f *fakeRepo) CountActiveSchools(_ context.Context) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeRepo) DashboardRows(_ context.Context) ([]entity.SchoolJoin, error) {
	f.rowsCalls++
	return f.rows, f.rowsErr
}

func newService(repo *fakeRepo) *dashboard.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return dashboard.NewDashboardService(repo, 10*time.Second, logger)
}

func school(id, name string, createdAt time.Time) entity.School {
	return entity.School{ID: id, Name: name, Active: true, CreatedAt: createdAt}
}

func TestSummaryZeroSchoolsSkipsJoin(t *testing.T) {
	repo := &fakeRepo{count: 0}
	svc := newService(repo)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalSchools)
	assert.Zero(t, summary.ActiveTrials)
	assert.Zero(t, summary.ActivePaid)
	assert.Zero(t, summary.TotalRevenue)
	assert.Empty(t, summary.Schools)
	assert.Zero(t, repo.rowsCalls, "no aggregation run for an empty estate")
}

func TestSummaryUnavailableOnError(t *testing.T) {
	repo := &fakeRepo{count: 3, rowsErr: errors.New("server selection timeout")}
	svc := newService(repo)

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, dashboard.ErrUnavailable)

	repo = &fakeRepo{countErr: errors.New("no reachable servers")}
	_, err = newService(repo).Summary(context.Background())
	assert.ErrorIs(t, err, dashboard.ErrUnavailable)
}

func TestSummaryClassificationAndRevenue(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{
		count: 3,
		rows: []entity.SchoolJoin{
			{
				School: school("s1", "Trial School", now.AddDate(0, 0, -2)),
				Admins: []entity.User{{Name: "First Admin"}},
				Subscriptions: []entity.Subscription{{
					PlanType: entity.PlanTrial, Status: entity.SubscriptionActive,
					ExpiresAt: now.AddDate(0, 0, 5), Priority: 1,
				}},
			},
			{
				School: school("s2", "Paid School", now.AddDate(0, 0, -30)),
				Admins: []entity.User{{Name: "Paid Admin"}},
				Subscriptions: []entity.Subscription{{
					PlanType: entity.PlanPaid, Status: entity.SubscriptionActive,
					ExpiresAt: now.AddDate(0, 0, 200), Priority: 2, FinalAmount: 4999,
				}},
			},
			{
				// Expired paid plan: inactive for counts, revenue still summed.
				School: school("s3", "Lapsed School", now.AddDate(0, 0, -400)),
				Subscriptions: []entity.Subscription{{
					PlanType: entity.PlanPaid, Status: entity.SubscriptionActive,
					ExpiresAt: now.AddDate(0, 0, -10), Priority: 2, FinalAmount: 2500,
				}},
			},
		},
	}
	svc := newService(repo)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalSchools)
	assert.Equal(t, 1, summary.ActiveTrials)
	assert.Equal(t, 1, summary.ActivePaid)
	assert.Equal(t, float64(7499), summary.TotalRevenue, "revenue sums every record, expired included")

	require.Len(t, summary.Schools, 3)
	assert.Equal(t, "First Admin", summary.Schools[0].AdminName)
	assert.Equal(t, "Unknown", summary.Schools[2].AdminName, "admin-less school reports Unknown")
	assert.Zero(t, summary.Schools[2].DaysRemaining, "expired plan never reports negative days")
}

func TestSummaryNoSubscriptionDefaults(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{
		count: 1,
		rows: []entity.SchoolJoin{{
			School: school("s1", "Fresh School", now),
			Admins: []entity.User{{Name: "Admin"}},
		}},
	}
	svc := newService(repo)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Schools, 1)
	report := summary.Schools[0]
	assert.Equal(t, "none", report.PlanType)
	assert.Equal(t, "inactive", report.Status)
	assert.False(t, report.IsTrial)
	assert.Zero(t, summary.ActiveTrials)
	assert.Zero(t, summary.ActivePaid)
}

func TestSummaryPicksHighestPrioritySubscription(t *testing.T) {
	now := time.Now()
	// A paid upgrade expiring sooner still outranks the longer trial.
	repo := &fakeRepo{
		count: 1,
		rows: []entity.SchoolJoin{{
			School: school("s1", "Upgraded School", now),
			Admins: []entity.User{{Name: "Admin"}},
			Subscriptions: []entity.Subscription{
				{
					PlanType: entity.PlanTrial, Status: entity.SubscriptionActive,
					ExpiresAt: now.AddDate(0, 0, 14), Priority: 1,
				},
				{
					PlanType: entity.PlanPaid, Status: entity.SubscriptionActive,
					ExpiresAt: now.AddDate(0, 0, 7), Priority: 2, FinalAmount: 999,
				},
			},
		}},
	}
	svc := newService(repo)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Schools, 1)
	assert.Equal(t, entity.PlanPaid, summary.Schools[0].PlanType)
	assert.Equal(t, float64(999), summary.Schools[0].Revenue)
	assert.Equal(t, 1, summary.ActivePaid)
	assert.Zero(t, summary.ActiveTrials)
}
