package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertActivityLog(ctx context.Context, log *entity.ActivityLog) error {
	_, err := m.collection(activityCollection).InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("mongodb insert activity log: %w", err)
	}
	return nil
}

// FindActivityLogs returns entries newest first.
func (m *MongoDB) FindActivityLogs(ctx context.Context, filter entity.ActivityFilter) ([]entity.ActivityLog, error) {
	query := bson.D{}
	if filter.Entity != "" {
		query = append(query, bson.E{Key: "entity", Value: filter.Entity})
	}
	if filter.EntityID != "" {
		query = append(query, bson.E{Key: "entity_id", Value: filter.EntityID})
	}
	if filter.UserID != "" {
		query = append(query, bson.E{Key: "user_id", Value: filter.UserID})
	}
	if filter.From != nil || filter.To != nil {
		period := bson.D{}
		if filter.From != nil {
			period = append(period, bson.E{Key: "$gte", Value: *filter.From})
		}
		if filter.To != nil {
			period = append(period, bson.E{Key: "$lte", Value: *filter.To})
		}
		query = append(query, bson.E{Key: "timestamp", Value: period})
	}

	opts := options.Find().SetSort(bson.D{{"timestamp", -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	cursor, err := m.collection(activityCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find activity logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []entity.ActivityLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("mongodb decode activity logs: %w", err)
	}
	return logs, nil
}

// PurgeActivityLogs removes entries older than before. Only the admin tool calls it.
func (m *MongoDB) PurgeActivityLogs(ctx context.Context, before time.Time) (int64, error) {
	result, err := m.collection(activityCollection).DeleteMany(ctx, bson.D{{"timestamp", bson.D{{"$lt", before}}}})
	if err != nil {
		return 0, fmt.Errorf("mongodb purge activity logs: %w", err)
	}
	return result.DeletedCount, nil
}
