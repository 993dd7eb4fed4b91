package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProjectsCollection      = "projects"
	ProjectImagesCollection = "project_images"
	MessagesCollection      = "messages"
	SettingsCollection      = "settings"
)

type Collections struct {
	Projects      *mongo.Collection
	ProjectImages *mongo.Collection
	Messages      *mongo.Collection
	Settings      *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, Open(client.Database(dbName)), nil
}

func Open(db *mongo.Database) *Collections {
	return &Collections{
		Projects:      db.Collection(ProjectsCollection),
		ProjectImages: db.Collection(ProjectImagesCollection),
		Messages:      db.Collection(MessagesCollection),
		Settings:      db.Collection(SettingsCollection),
	}
}

// EnsureIndexes creates the sort indexes used by the list queries.
func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	byCreatedDesc := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}

	if _, err := cols.Projects.Indexes().CreateOne(indexTimeout, byCreatedDesc); err != nil {
		return err
	}

	_, err := cols.Messages.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		byCreatedDesc,
		{Keys: bson.D{{Key: "read", Value: 1}}},
	})
	if err != nil {
		return err
	}

	return nil
}
