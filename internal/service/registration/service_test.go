package registration_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudesk/entity"
	"edudesk/internal/service/registration"
)

type fakeRepo struct {
	schools       []*entity.School
	users         []*entity.User
	subscriptions []*entity.Subscription
}

func (f *fakeRepo) InsertSchool(_ context.Context, school *entity.School) error {
	f.schools = append(f.schools, school)
	return nil
}

func (f *fakeRepo) InsertUser(_ context.Context, user *entity.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeRepo) InsertSubscription(_ context.Context, sub *entity.Subscription) error {
	f.subscriptions = append(f.subscriptions, sub)
	return nil
}

func (f *fakeRepo) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

type fakeMailer struct {
	sent int
	err  error
}

func (f *fakeMailer) SendWelcome(_, _, _ string) error {
	f.sent++
	return f.err
}

type fakeNotifier struct {
	events []*entity.School
}

func (f *fakeNotifier) SchoolRegistered(school *entity.School) {
	f.events = append(f.events, school)
}

func newService(repo *fakeRepo) *registration.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return registration.NewRegistrationService(repo, logger)
}

func payload() *entity.Registration {
	return &entity.Registration{
		SchoolName:     "Greenfield High",
		AdminName:      "Asha Rao",
		Username:       "asha.rao",
		Email:          "asha@greenfield.example",
		Mobile:         "+919876543210",
		Channel:        entity.ChannelSMS,
		SMSSenderName:  "GRNFLD",
		FromEmail:      "noreply@greenfield.example",
		FromEmailName:  "Greenfield High",
		AcademicYear:   "2026-2027",
		Address:        entity.Address{Line: "12 Lake Road", City: "Pune", State: "Maharashtra", PostalCode: "411001", Country: "IN"},
		Latitude:       18.5204,
		Longitude:      73.8567,
		MobileVerified: true,
	}
}

func TestRegisterCreatesSchoolAndAdmin(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	completion, err := svc.Register(context.Background(), payload())
	require.NoError(t, err)

	require.Len(t, repo.schools, 1)
	require.Len(t, repo.users, 1)
	assert.Empty(t, repo.subscriptions)

	school, admin := repo.schools[0], repo.users[0]
	assert.True(t, school.Active, "new schools start active")
	assert.True(t, school.MobileVerified)
	assert.Equal(t, admin.ID, school.AdminUserID)
	assert.Equal(t, school.ID, admin.SchoolID)
	assert.Equal(t, entity.AdminRole, admin.Role)

	assert.Equal(t, "Greenfield High", completion.SchoolName)
	assert.Equal(t, "+919876543210", completion.Mobile)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, payload())
	require.NoError(t, err)

	second := payload()
	second.SchoolName = "Another School"
	_, err = svc.Register(ctx, second)
	assert.ErrorIs(t, err, registration.ErrUsernameTaken)
	assert.Len(t, repo.schools, 1)
}

func TestRegisterAssignsTrialSubscription(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	reg := payload()
	reg.AssignSubscription = true
	reg.SubscriptionType = entity.PlanTrial

	_, err := svc.Register(context.Background(), reg)
	require.NoError(t, err)

	require.Len(t, repo.subscriptions, 1)
	sub := repo.subscriptions[0]
	assert.Equal(t, repo.schools[0].ID, sub.SchoolID)
	assert.Equal(t, entity.PlanTrial, sub.PlanType)
	assert.Equal(t, entity.SubscriptionActive, sub.Status)
}

func TestRegisterAssignsPaidSubscriptionPending(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	reg := payload()
	reg.AssignSubscription = true
	reg.SubscriptionType = entity.PlanPaid
	reg.SubscriptionDays = 30

	_, err := svc.Register(context.Background(), reg)
	require.NoError(t, err)

	require.Len(t, repo.subscriptions, 1)
	sub := repo.subscriptions[0]
	assert.Equal(t, entity.PlanPaid, sub.PlanType)
	assert.Equal(t, entity.SubscriptionPending, sub.Status, "paid plans wait for billing confirmation")
	assert.Equal(t, 2, sub.Priority)
}

func TestRegisterMailFailureIsBestEffort(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)
	mailer := &fakeMailer{err: errors.New("smtp unavailable")}
	svc.SetMailer(mailer)

	_, err := svc.Register(context.Background(), payload())
	require.NoError(t, err, "mail delivery failure never fails registration")
	assert.Equal(t, 1, mailer.sent)
}

func TestRegisterNotifiesListeners(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)
	notifier := &fakeNotifier{}
	svc.SetNotifier(notifier)

	_, err := svc.Register(context.Background(), payload())
	require.NoError(t, err)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, repo.schools[0].ID, notifier.events[0].ID)
}
