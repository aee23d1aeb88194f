package db

import (
	"context"
	"encoding/json"
	"firewatch/config"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB reads collections from a MongoDB or DocumentDB database.
type MongoDB struct {
	documentReader
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoDB connects and pings the server before returning.
func NewMongoDB(ctx context.Context, cfg config.MongoConfig, log logrus.FieldLogger) (*MongoDB, error) {
	log = orDiscard(log)
	if cfg.URI == "" {
		return nil, fmt.Errorf("database connection URL is empty")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, timeout)
	defer cancelPing()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.WithField("database", cfg.Database()).Info("✅ Connected to MongoDB")

	db := &MongoDB{client: client, database: client.Database(cfg.Database())}
	db.documentReader = documentReader{fetch: db.documents, log: log}
	return db, nil
}

// Close disconnects the client.
func (db *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB client: %w", err)
	}
	return nil
}

// documents returns every document as relaxed extended JSON, which keeps $oid and $date wrappers intact.
func (db *MongoDB) documents(ctx context.Context, collection string) ([]json.RawMessage, error) {
	cursor, err := db.database.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []json.RawMessage
	for cursor.Next(ctx) {
		raw, err := bson.MarshalExtJSON(cursor.Current, false, false)
		if err != nil {
			db.log.WithError(err).WithField("collection", collection).Warn("⚠️  Skipping unreadable document")
			continue
		}
		docs = append(docs, raw)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}
	return docs, nil
}
