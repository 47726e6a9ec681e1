package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"edudesk/entity"
	"edudesk/internal/lib/sl"
)

// ErrUsernameTaken is returned when the requested admin username is
// already in use.
var ErrUsernameTaken = errors.New("username already taken")

// Repository defines the persistence operations registration needs.
type Repository interface {
	InsertSchool(ctx context.Context, school *entity.School) error
	InsertUser(ctx context.Context, user *entity.User) error
	InsertSubscription(ctx context.Context, sub *entity.Subscription) error
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
}

// Mailer sends the post-registration confirmation mail.
type Mailer interface {
	SendWelcome(toName, toEmail, schoolName string) error
}

// Notifier publishes registration events to dashboard listeners.
type Notifier interface {
	SchoolRegistered(school *entity.School)
}

// Service turns a completed wizard payload into persisted School, admin
// User and (optionally) Subscription records.
type Service struct {
	repo     Repository
	mailer   Mailer
	notifier Notifier
	log      *slog.Logger
}

func NewRegistrationService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  logger.With(sl.Module("registration service")),
	}
}

func (s *Service) SetMailer(mailer Mailer) {
	s.mailer = mailer
}

func (s *Service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Register persists the school, its admin user and the requested
// subscription. The welcome mail is best-effort: a delivery failure is
// logged and never fails the registration.
func (s *Service) Register(ctx context.Context, reg *entity.Registration) (*entity.Completion, error) {
	existing, err := s.repo.GetUserByUsername(ctx, reg.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	school := entity.NewSchool(reg.SchoolName, reg.Address, entity.Geo{
		Latitude:  reg.Latitude,
		Longitude: reg.Longitude,
	})
	school.AcademicYear = reg.AcademicYear
	school.OperatingHours = reg.OperatingHours
	school.MobileVerified = reg.MobileVerified

	admin := entity.NewAdmin(reg.AdminName, reg.Username, reg.Email, reg.Mobile, school.ID)
	school.AdminUserID = admin.ID

	if err := s.repo.InsertSchool(ctx, school); err != nil {
		return nil, fmt.Errorf("insert school: %w", err)
	}
	if err := s.repo.InsertUser(ctx, admin); err != nil {
		return nil, fmt.Errorf("insert admin user: %w", err)
	}

	if reg.AssignSubscription {
		sub := s.buildSubscription(school.ID, reg)
		if err := s.repo.InsertSubscription(ctx, sub); err != nil {
			return nil, fmt.Errorf("insert subscription: %w", err)
		}
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(reg.AdminName, reg.Email, reg.SchoolName); err != nil {
			s.log.With(sl.Err(err), slog.String("email", reg.Email)).Error("welcome mail")
		}
	}
	if s.notifier != nil {
		s.notifier.SchoolRegistered(school)
	}

	s.log.With(
		slog.String("school_id", school.ID),
		slog.String("school", school.Name),
		slog.Bool("mobile_verified", reg.MobileVerified),
	).Info("school registered")

	return &entity.Completion{
		SchoolName: school.Name,
		Email:      reg.Email,
		Mobile:     reg.Mobile,
	}, nil
}

func (s *Service) buildSubscription(schoolID string, reg *entity.Registration) *entity.Subscription {
	if reg.SubscriptionType == entity.PlanTrial || reg.SubscriptionType == "" {
		return entity.NewTrial(schoolID)
	}

	now := time.Now()
	days := reg.SubscriptionDays
	if days <= 0 {
		days = entity.DefaultSubscriptionDays
	}
	// Paid plans start pending until payment settles; the hosting
	// platform's billing hook flips them active.
	return &entity.Subscription{
		ID:           uuid.NewString(),
		SchoolID:     schoolID,
		PlanType:     entity.PlanPaid,
		Status:       entity.SubscriptionPending,
		ExpiresAt:    now.AddDate(0, 0, days),
		Priority:     2,
		MessageLimit: 0,
		UsageResetAt: now,
		CreatedAt:    now,
	}
}
