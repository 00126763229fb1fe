package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) CreateUser(ctx context.Context, user *entity.User) error {
	_, err := m.collection(usersCollection).InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("mongodb insert user: %w", err)
	}
	return nil
}

func (m *MongoDB) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := m.collection(usersCollection).FindOne(ctx, bson.D{{"_id", id}}).Decode(&user)
	if err != nil {
		return nil, m.findError(err)
	}
	return &user, nil
}

func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := m.collection(usersCollection).FindOne(ctx, bson.D{{"email", email}}).Decode(&user)
	if err != nil {
		return nil, m.findError(err)
	}
	return &user, nil
}

func (m *MongoDB) GetUsers(ctx context.Context) ([]entity.User, error) {
	opts := options.Find().SetSort(bson.D{{"name", 1}})
	cursor, err := m.collection(usersCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []entity.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("mongodb decode users: %w", err)
	}
	return users, nil
}

func (m *MongoDB) TouchUser(ctx context.Context, id string, seen time.Time) error {
	_, err := m.collection(usersCollection).UpdateOne(ctx,
		bson.D{{"_id", id}},
		bson.D{{"$set", bson.D{{"last_seen", seen}}}},
	)
	if err != nil {
		return fmt.Errorf("mongodb update user last seen: %w", err)
	}
	return nil
}
