package subscription_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudesk/entity"
	repository "edudesk/internal/database"
	"edudesk/internal/service/subscription"
)

type fakeRepo struct {
	schools   map[string]*entity.School
	inserted  []*entity.Subscription
	insertErr error
}

func newFakeRepo(schoolIDs ...string) *fakeRepo {
	repo := &fakeRepo{schools: make(map[string]*entity.School)}
	for _, id := range schoolIDs {
		repo.schools[id] = &entity.School{ID: id, Name: "School " + id, Active: true}
	}
	return repo
}

func (f *fakeRepo) GetSchoolByID(_ context.Context, id string) (*entity.School, error) {
	return f.schools[id], nil
}

func (f *fakeRepo) HasLiveSubscription(_ context.Context, schoolID string) (bool, error) {
	for _, sub := range f.inserted {
		if sub.SchoolID != schoolID {
			continue
		}
		if sub.Status == entity.SubscriptionActive || sub.Status == entity.SubscriptionPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) InsertSubscription(_ context.Context, sub *entity.Subscription) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, sub)
	return nil
}

func newService(repo *fakeRepo) *subscription.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return subscription.NewSubscriptionService(repo, logger)
}

func TestActivateTrial(t *testing.T) {
	repo := newFakeRepo("school-1")
	svc := newService(repo)

	trial, err := svc.ActivateTrial(context.Background(), "school-1")
	require.NoError(t, err)

	assert.Equal(t, "school-1", trial.SchoolID)
	assert.Equal(t, entity.PlanTrial, trial.PlanType)
	assert.Equal(t, entity.SubscriptionActive, trial.Status)
	assert.Equal(t, entity.TrialMessageLimit, trial.MessageLimit)
	assert.Zero(t, trial.FinalAmount)
	require.Len(t, repo.inserted, 1)
}

func TestActivateTrialUnknownSchool(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.ActivateTrial(context.Background(), "missing")
	assert.ErrorIs(t, err, subscription.ErrSchoolNotFound)
}

func TestActivateTrialTwiceConflicts(t *testing.T) {
	repo := newFakeRepo("school-1")
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.ActivateTrial(ctx, "school-1")
	require.NoError(t, err)

	_, err = svc.ActivateTrial(ctx, "school-1")
	assert.ErrorIs(t, err, subscription.ErrAlreadySubscribed)
	assert.Len(t, repo.inserted, 1, "at most one subscription record ever created")
}

func TestActivateTrialRaceMapsDuplicateKey(t *testing.T) {
	// The pre-check passes but a concurrent activation won the insert; the
	// unique index violation must surface as the same conflict.
	repo := newFakeRepo("school-1")
	repo.insertErr = repository.ErrDuplicateSubscription
	svc := newService(repo)

	_, err := svc.ActivateTrial(context.Background(), "school-1")
	assert.ErrorIs(t, err, subscription.ErrAlreadySubscribed)
	assert.Empty(t, repo.inserted)
}
