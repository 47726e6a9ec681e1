package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edudesk/internal/wizard"
)

// SaveWizardState persists a registration session's state.
func (m *MongoDB) SaveWizardState(ctx context.Context, state *wizard.State) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(wizardStatesCollection)

	state.UpdatedAt = time.Now()

	filter := bson.D{{Key: "_id", Value: state.SessionID}}
	update := bson.D{{Key: "$set", Value: state}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}

	return nil
}

// LoadWizardState retrieves a registration session's state.
func (m *MongoDB) LoadWizardState(ctx context.Context, sessionID string) (*wizard.State, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(wizardStatesCollection)

	filter := bson.D{{Key: "_id", Value: sessionID}}

	var state wizard.State
	err = collection.FindOne(ctx, filter).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &state, nil
}

// DeleteWizardState removes a registration session's state.
func (m *MongoDB) DeleteWizardState(ctx context.Context, sessionID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(wizardStatesCollection)

	filter := bson.D{{Key: "_id", Value: sessionID}}

	_, err = collection.DeleteOne(ctx, filter)
	return err
}

// WizardStateExists checks if a registration session has a saved state.
func (m *MongoDB) WizardStateExists(ctx context.Context, sessionID string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(wizardStatesCollection)

	filter := bson.D{{Key: "_id", Value: sessionID}}

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
