package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edudesk/entity"
)

// EnsureIndexes creates the indexes the service relies on. The unique
// partial index on live subscriptions is what turns the duplicate-trial
// race into a clean conflict error instead of two records.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(subscriptionsCollection)

	model := mongo.IndexModel{
		Keys: bson.D{{Key: "school_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.D{
				{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{
					entity.SubscriptionActive,
					entity.SubscriptionPending,
				}}}},
			}),
	}

	_, err = collection.Indexes().CreateOne(ctx, model)
	return err
}

// InsertSubscription persists a subscription. A live (active or pending)
// subscription already present for the school surfaces as
// ErrDuplicateSubscription via the unique partial index.
func (m *MongoDB) InsertSubscription(ctx context.Context, sub *entity.Subscription) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(subscriptionsCollection)

	_, err = collection.InsertOne(ctx, sub)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateSubscription
	}
	return err
}

// HasLiveSubscription checks whether a school holds an active-or-pending
// subscription.
func (m *MongoDB) HasLiveSubscription(ctx context.Context, schoolID string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(subscriptionsCollection)

	filter := bson.D{
		{Key: "school_id", Value: schoolID},
		{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{
			entity.SubscriptionActive,
			entity.SubscriptionPending,
		}}}},
	}

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
