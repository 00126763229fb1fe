package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertCall(ctx context.Context, call *entity.CallActivity) error {
	_, err := m.collection(callsCollection).InsertOne(ctx, call)
	if err != nil {
		return fmt.Errorf("mongodb insert call: %w", err)
	}
	return nil
}

// FindCalls returns raw call events in [from, to) for the given users.
// An empty userIDs slice means all users.
func (m *MongoDB) FindCalls(ctx context.Context, userIDs []string, from, to time.Time) ([]entity.CallActivity, error) {
	query := bson.D{{"timestamp", bson.D{{"$gte", from}, {"$lt", to}}}}
	if len(userIDs) > 0 {
		query = append(query, bson.E{Key: "user_id", Value: bson.D{{"$in", userIDs}}})
	}
	opts := options.Find().SetSort(bson.D{{"timestamp", -1}})
	cursor, err := m.collection(callsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find calls: %w", err)
	}
	defer cursor.Close(ctx)

	var calls []entity.CallActivity
	if err = cursor.All(ctx, &calls); err != nil {
		return nil, fmt.Errorf("mongodb decode calls: %w", err)
	}
	return calls, nil
}
