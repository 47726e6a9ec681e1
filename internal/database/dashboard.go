package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"edudesk/entity"
)

// DashboardRows runs the reporting join over all active schools. The
// caller bounds it with a deadline context; on timeout the aggregation
// error propagates unchanged.
func (m *MongoDB) DashboardRows(ctx context.Context) ([]entity.SchoolJoin, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(schoolsCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "active", Value: true}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "let", Value: bson.D{{Key: "school_id", Value: "$_id"}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$school_id", "$$school_id"}}},
					bson.D{{Key: "$eq", Value: bson.A{"$role", entity.AdminRole}}},
				}}}}}}},
				{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
				{{Key: "$limit", Value: 1}},
			}},
			{Key: "as", Value: "admin"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptionsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "school_id"},
			{Key: "as", Value: "subs"},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []entity.SchoolJoin
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	return rows, nil
}
