package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertTask(ctx context.Context, task *entity.Task) error {
	_, err := m.collection(tasksCollection).InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("mongodb insert task: %w", err)
	}
	return nil
}

func (m *MongoDB) GetTask(ctx context.Context, id string) (*entity.Task, error) {
	var task entity.Task
	err := m.collection(tasksCollection).FindOne(ctx, bson.D{{"_id", id}}).Decode(&task)
	if err != nil {
		return nil, m.findError(err)
	}
	return &task, nil
}

// FindTasks applies the stored-field part of the filter; bucket and text
// search are evaluated by the caller.
func (m *MongoDB) FindTasks(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, error) {
	query := bson.D{}
	if filter.UserID != "" {
		query = append(query, bson.E{Key: "user_id", Value: filter.UserID})
	}
	if filter.LeadID != "" {
		query = append(query, bson.E{Key: "lead_id", Value: filter.LeadID})
	}
	if filter.Type != "" {
		query = append(query, bson.E{Key: "type", Value: filter.Type})
	}

	opts := options.Find().SetSort(bson.D{{"due_date", 1}})
	cursor, err := m.collection(tasksCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []entity.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("mongodb decode tasks: %w", err)
	}
	return tasks, nil
}

func (m *MongoDB) ReplaceTask(ctx context.Context, task *entity.Task, expectedVersion int64) error {
	filter := bson.D{{"_id", task.ID}, {"version", expectedVersion}}
	result, err := m.collection(tasksCollection).ReplaceOne(ctx, filter, task)
	if err != nil {
		return fmt.Errorf("mongodb replace task: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrVersionConflict
	}
	return nil
}

func (m *MongoDB) DeleteTask(ctx context.Context, id string) (bool, error) {
	result, err := m.collection(tasksCollection).DeleteOne(ctx, bson.D{{"_id", id}})
	if err != nil {
		return false, fmt.Errorf("mongodb delete task: %w", err)
	}
	return result.DeletedCount > 0, nil
}
