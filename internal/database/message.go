package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertMessage(ctx context.Context, message *entity.InternalMessage) error {
	_, err := m.collection(messagesCollection).InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("mongodb insert message: %w", err)
	}
	return nil
}

func (m *MongoDB) GetMessage(ctx context.Context, id string) (*entity.InternalMessage, error) {
	var message entity.InternalMessage
	err := m.collection(messagesCollection).FindOne(ctx, bson.D{{"_id", id}}).Decode(&message)
	if err != nil {
		return nil, m.findError(err)
	}
	return &message, nil
}

// FindMessages returns messages sent by, addressed to, or broadcast to userID.
func (m *MongoDB) FindMessages(ctx context.Context, userID string) ([]entity.InternalMessage, error) {
	query := bson.D{{"$or", bson.A{
		bson.D{{"sender_id", userID}},
		bson.D{{"recipient_id", userID}},
		bson.D{{"recipient_id", entity.BroadcastRecipient}},
	}}}
	opts := options.Find().SetSort(bson.D{{"created_at", 1}})
	cursor, err := m.collection(messagesCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []entity.InternalMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("mongodb decode messages: %w", err)
	}
	return messages, nil
}

// MarkMessageRead adds userID to read_by; false when the message does not exist.
func (m *MongoDB) MarkMessageRead(ctx context.Context, id, userID string) (bool, error) {
	result, err := m.collection(messagesCollection).UpdateOne(ctx,
		bson.D{{"_id", id}},
		bson.D{{"$addToSet", bson.D{{"read_by", userID}}}},
	)
	if err != nil {
		return false, fmt.Errorf("mongodb mark message read: %w", err)
	}
	return result.MatchedCount > 0, nil
}
