package wizard

import (
	"context"
)

// MongoStateStorage is an adapter that wraps the database operations.
type MongoStateStorage struct {
	repo StateRepository
}

// StateRepository defines the database operations for wizard state.
type StateRepository interface {
	SaveWizardState(ctx context.Context, state *State) error
	LoadWizardState(ctx context.Context, sessionID string) (*State, error)
	DeleteWizardState(ctx context.Context, sessionID string) error
	WizardStateExists(ctx context.Context, sessionID string) (bool, error)
}

// NewMongoStateStorage creates a new MongoDB state storage.
func NewMongoStateStorage(repo StateRepository) *MongoStateStorage {
	return &MongoStateStorage{repo: repo}
}

// Save persists a session's state.
func (s *MongoStateStorage) Save(ctx context.Context, state *State) error {
	return s.repo.SaveWizardState(ctx, state)
}

// Load retrieves a session's state.
func (s *MongoStateStorage) Load(ctx context.Context, sessionID string) (*State, error) {
	return s.repo.LoadWizardState(ctx, sessionID)
}

// Delete removes a session's state.
func (s *MongoStateStorage) Delete(ctx context.Context, sessionID string) error {
	return s.repo.DeleteWizardState(ctx, sessionID)
}

// Exists checks if a session has a saved state.
func (s *MongoStateStorage) Exists(ctx context.Context, sessionID string) (bool, error) {
	return s.repo.WizardStateExists(ctx, sessionID)
}
