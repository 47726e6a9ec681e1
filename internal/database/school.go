package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edudesk/entity"
)

// InsertSchool persists a newly registered school.
func (m *MongoDB) InsertSchool(ctx context.Context, school *entity.School) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(schoolsCollection)

	_, err = collection.InsertOne(ctx, school)
	return err
}

// GetSchoolByID retrieves a school by its ID.
func (m *MongoDB) GetSchoolByID(ctx context.Context, id string) (*entity.School, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(schoolsCollection)

	filter := bson.D{{Key: "_id", Value: id}}

	var school entity.School
	err = collection.FindOne(ctx, filter).Decode(&school)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &school, nil
}

// GetAllSchools retrieves schools filtered by active status:
// "active", "inactive" or "all". Sorted by creation time, newest first.
func (m *MongoDB) GetAllSchools(ctx context.Context, status string) ([]entity.School, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(schoolsCollection)

	filter := bson.D{}
	switch status {
	case "active":
		filter = bson.D{{Key: "active", Value: true}}
	case "inactive":
		filter = bson.D{{Key: "active", Value: false}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schools []entity.School
	if err = cursor.All(ctx, &schools); err != nil {
		return nil, err
	}

	return schools, nil
}

// SetSchoolActive sets the active status of a school by ID. A soft
// delete is SetSchoolActive(id, false).
func (m *MongoDB) SetSchoolActive(ctx context.Context, id string, active bool) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(schoolsCollection)

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "active", Value: active}}}}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSchool removes a school record entirely (hard delete).
func (m *MongoDB) DeleteSchool(ctx context.Context, id string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(schoolsCollection)

	res, err := collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveSchools returns the count of active schools.
func (m *MongoDB) CountActiveSchools(ctx context.Context) (int64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(schoolsCollection)

	filter := bson.D{{Key: "active", Value: true}}

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}

	return count, nil
}
