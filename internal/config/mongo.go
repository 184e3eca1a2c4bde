package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create indexes
	err = createIndexes(client, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	// Document collections: unique slug, status filter support
	for _, name := range []string{"articles", "profiles"} {
		col := db.Collection(name)
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "status", Value: 1}},
			},
		}
		if _, err := col.Indexes().CreateMany(context.Background(), indexes); err != nil {
			return err
		}
	}

	// Chunk collections: slug lookup for cascade deletes and rebuilds,
	// status for the approved-only retrieval filter
	for _, name := range []string{"article_chunks", "profile_chunks"} {
		col := db.Collection(name)
		indexes := []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "slug", Value: 1}, {Key: "chunk_index", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "status", Value: 1}},
			},
		}
		if _, err := col.Indexes().CreateMany(context.Background(), indexes); err != nil {
			return err
		}
	}

	return nil
}
