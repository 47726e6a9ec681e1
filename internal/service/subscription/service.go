package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"edudesk/entity"
	repository "edudesk/internal/database"
	"edudesk/internal/lib/sl"
)

var (
	// ErrAlreadySubscribed is the conflict returned when a school already
	// holds an active-or-pending subscription.
	ErrAlreadySubscribed = errors.New("school already has an active or pending subscription")
	// ErrSchoolNotFound is returned for an unknown school reference.
	ErrSchoolNotFound = errors.New("school not found")
)

// Repository defines the persistence operations trial activation needs.
type Repository interface {
	GetSchoolByID(ctx context.Context, id string) (*entity.School, error)
	HasLiveSubscription(ctx context.Context, schoolID string) (bool, error)
	InsertSubscription(ctx context.Context, sub *entity.Subscription) error
}

// Service activates trial subscriptions for schools.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewSubscriptionService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  logger.With(sl.Module("subscription service")),
	}
}

// ActivateTrial creates the fixed 14-day trial for a school unless it
// already holds a live subscription. The pre-check answers the common
// case; the unique partial index behind InsertSubscription closes the
// race between two concurrent activations, so at most one record is
// ever created.
func (s *Service) ActivateTrial(ctx context.Context, schoolID string) (*entity.Subscription, error) {
	school, err := s.repo.GetSchoolByID(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("get school: %w", err)
	}
	if school == nil {
		return nil, ErrSchoolNotFound
	}

	live, err := s.repo.HasLiveSubscription(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("check live subscription: %w", err)
	}
	if live {
		return nil, ErrAlreadySubscribed
	}

	trial := entity.NewTrial(schoolID)
	if err := s.repo.InsertSubscription(ctx, trial); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubscription) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("insert trial: %w", err)
	}

	s.log.With(
		slog.String("school_id", schoolID),
		slog.String("subscription_id", trial.ID),
	).Info("trial activated")

	return trial, nil
}
