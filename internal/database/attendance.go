package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) GetAttendance(ctx context.Context, userID, date string) (*entity.AttendanceRecord, error) {
	var record entity.AttendanceRecord
	err := m.collection(attendanceCollection).FindOne(ctx, bson.D{{"user_id", userID}, {"date", date}}).Decode(&record)
	if err != nil {
		return nil, m.findError(err)
	}
	return &record, nil
}

// SaveAttendance upserts the record for its user and date.
func (m *MongoDB) SaveAttendance(ctx context.Context, record *entity.AttendanceRecord) error {
	filter := bson.D{{"user_id", record.UserID}, {"date", record.Date}}
	update := bson.D{
		{"$set", bson.D{
			{"user_name", record.UserName},
			{"sessions", record.Sessions},
			{"total_hours", record.TotalHours},
			{"status", record.Status},
		}},
		{"$setOnInsert", bson.D{{"_id", record.ID}}},
	}
	_, err := m.collection(attendanceCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert attendance: %w", err)
	}
	return nil
}

// FindAttendance lists records with dates in [fromDate, toDate] (YYYY-MM-DD).
// An empty userID means all users.
func (m *MongoDB) FindAttendance(ctx context.Context, userID, fromDate, toDate string) ([]entity.AttendanceRecord, error) {
	query := bson.D{}
	if userID != "" {
		query = append(query, bson.E{Key: "user_id", Value: userID})
	}
	period := bson.D{}
	if fromDate != "" {
		period = append(period, bson.E{Key: "$gte", Value: fromDate})
	}
	if toDate != "" {
		period = append(period, bson.E{Key: "$lte", Value: toDate})
	}
	if len(period) > 0 {
		query = append(query, bson.E{Key: "date", Value: period})
	}

	opts := options.Find().SetSort(bson.D{{"date", 1}})
	cursor, err := m.collection(attendanceCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find attendance: %w", err)
	}
	defer cursor.Close(ctx)

	var records []entity.AttendanceRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("mongodb decode attendance: %w", err)
	}
	return records, nil
}

// ClearAttendance removes the records of one user, or of everyone when userID is empty.
func (m *MongoDB) ClearAttendance(ctx context.Context, userID string) (int64, error) {
	query := bson.D{}
	if userID != "" {
		query = append(query, bson.E{Key: "user_id", Value: userID})
	}
	result, err := m.collection(attendanceCollection).DeleteMany(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("mongodb clear attendance: %w", err)
	}
	return result.DeletedCount, nil
}
