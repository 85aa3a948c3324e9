package database

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/task-relations-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	TasksCollection = "tasks"
	UsersCollection = "users"
)

const mongoConnectTimeout = 10 * time.Second

// ConnectMongo opens a client and verifies the server is reachable
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, client.Database(cfg.MongoDatabase), nil
}

// MongoIndexes lists the indexes each collection needs
func MongoIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
			},
			{
				Keys:    bson.D{{Key: "dateCreated", Value: -1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_users_date_created"),
			},
		},
		TasksCollection: {
			{
				Keys:    bson.D{{Key: "assignedUser", Value: 1}, {Key: "completed", Value: 1}},
				Options: options.Index().SetName("idx_tasks_assigned_user_completed"),
			},
			{
				Keys:    bson.D{{Key: "dateCreated", Value: -1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_tasks_date_created"),
			},
		},
	}
}

// EnsureMongoIndexes creates any missing indexes. Creating an existing index
// with the same definition is a no-op on the server.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range MongoIndexes() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
