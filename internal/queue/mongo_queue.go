package queue

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoQueue implements Queue on top of a MongoDB collection. FindOneAndDelete
// sorted by enqueue time gives an atomic FIFO pop without any consumer
// coordination protocol.
type MongoQueue struct {
	collection *mongo.Collection
}

// NewMongoQueue creates a queue backed by the given collection and ensures
// the index the FIFO pop sorts on.
func NewMongoQueue(db *mongo.Database, collectionName string) (*MongoQueue, error) {
	collection := db.Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "enqueued_at", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create queue index: %w", err)
	}

	return &MongoQueue{collection: collection}, nil
}

func (q *MongoQueue) Enqueue(ctx context.Context, entry *Entry) error {
	entry.EnqueuedAt = time.Now().UTC()
	if _, err := q.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to enqueue entry: %w", err)
	}
	return nil
}

func (q *MongoQueue) Pop(ctx context.Context) (*Entry, error) {
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "enqueued_at", Value: 1}})

	var entry Entry
	err := q.collection.FindOneAndDelete(ctx, bson.D{}, opts).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop entry: %w", err)
	}
	return &entry, nil
}
