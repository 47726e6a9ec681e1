package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"edudesk/entity"
)

// InsertUser persists a user record.
func (m *MongoDB) InsertUser(ctx context.Context, user *entity.User) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	_, err = collection.InsertOne(ctx, user)
	return err
}

// GetUserByUsername retrieves a user by username.
func (m *MongoDB) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	filter := bson.D{{Key: "username", Value: username}}

	var user entity.User
	err = collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}
