package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertEmail(ctx context.Context, email *entity.Email) error {
	_, err := m.collection(emailsCollection).InsertOne(ctx, email)
	if err != nil {
		return fmt.Errorf("mongodb insert email: %w", err)
	}
	return nil
}

func (m *MongoDB) FindEmails(ctx context.Context, userID string) ([]entity.Email, error) {
	opts := options.Find().SetSort(bson.D{{"created_at", -1}})
	cursor, err := m.collection(emailsCollection).Find(ctx, bson.D{{"user_id", userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find emails: %w", err)
	}
	defer cursor.Close(ctx)

	var emails []entity.Email
	if err = cursor.All(ctx, &emails); err != nil {
		return nil, fmt.Errorf("mongodb decode emails: %w", err)
	}
	return emails, nil
}

// DeleteEmail removes a stored email owned by userID.
func (m *MongoDB) DeleteEmail(ctx context.Context, id, userID string) (bool, error) {
	result, err := m.collection(emailsCollection).DeleteOne(ctx, bson.D{{"_id", id}, {"user_id", userID}})
	if err != nil {
		return false, fmt.Errorf("mongodb delete email: %w", err)
	}
	return result.DeletedCount > 0, nil
}
