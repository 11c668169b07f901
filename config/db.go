package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database bundles the portal's collections. It is created once in main
// and handed to the controllers explicitly; there is no package-level
// connection cache.
type Database struct {
	client *mongo.Client

	Users        *mongo.Collection
	Issues       *mongo.Collection
	AuditLogs    *mongo.Collection
	Messages     *mongo.Collection
	Articles     *mongo.Collection
	SystemConfig *mongo.Collection
	ResetTokens  *mongo.Collection
}

// ConnectDB dials MongoDB using MONGODB_URI and returns the collection set.
func ConnectDB(ctx context.Context) (*Database, error) {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is not set")
	}

	dbName := os.Getenv("MONGO_DB_NAME")
	if dbName == "" {
		dbName = "campus_portal"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	return &Database{
		client:       client,
		Users:        db.Collection("users"),
		Issues:       db.Collection("issues"),
		AuditLogs:    db.Collection("auditlogs"),
		Messages:     db.Collection("messages"),
		Articles:     db.Collection("articles"),
		SystemConfig: db.Collection("systemconfig"),
		ResetTokens:  db.Collection("resettokens"),
	}, nil
}

// Disconnect closes the underlying client.
func (d *Database) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}
