package repository

import (
	"BizDevCRM/internal/config"
	"BizDevCRM/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection      = "users"
	leadsCollection      = "leads"
	tasksCollection      = "tasks"
	proposalsCollection  = "proposals"
	activityCollection   = "activity_logs"
	callsCollection      = "call_activities"
	attendanceCollection = "attendance"
	emailsCollection     = "emails"
	messagesCollection   = "internal_messages"
)

type MongoDB struct {
	client   *mongo.Client
	database string
	log      *slog.Logger
}

func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().
		ApplyURI(connectionUri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}

	client, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}

	return &MongoDB{
		client:   client,
		database: conf.Mongo.Database,
		log:      logger.With(sl.Module("mongodb")),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

// findError hides ErrNoDocuments so that lookups return nil, nil.
func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

// EnsureIndexes creates the indexes the queries rely on.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{"email", 1}}, Options: options.Index().SetUnique(true)},
		},
		leadsCollection: {
			{Keys: bson.D{{"assigned_to", 1}}},
			{Keys: bson.D{{"stage", 1}}},
		},
		tasksCollection: {
			{Keys: bson.D{{"user_id", 1}, {"due_date", 1}}},
			{Keys: bson.D{{"lead_id", 1}}},
		},
		activityCollection: {
			{Keys: bson.D{{"timestamp", -1}}},
			{Keys: bson.D{{"entity_id", 1}, {"timestamp", -1}}},
		},
		attendanceCollection: {
			{Keys: bson.D{{"user_id", 1}, {"date", 1}}, Options: options.Index().SetUnique(true)},
		},
		callsCollection: {
			{Keys: bson.D{{"user_id", 1}, {"timestamp", -1}}},
		},
		emailsCollection: {
			{Keys: bson.D{{"user_id", 1}, {"created_at", -1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{"recipient_id", 1}, {"created_at", -1}}},
			{Keys: bson.D{{"sender_id", 1}, {"created_at", -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := m.collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongodb create indexes on %s: %w", name, err)
		}
	}
	return nil
}
