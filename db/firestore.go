package db

import (
	"context"
	"encoding/json"
	"errors"
	"firewatch/models"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirestoreDB wraps the Firestore client
type FirestoreDB struct {
	documentReader
	client *firestore.Client
}

// NewFirestoreDB initializes a new Firestore client
func NewFirestoreDB(ctx context.Context, projectID, credentialsPath string, log logrus.FieldLogger) (*FirestoreDB, error) {
	log = orDiscard(log)
	if projectID == "" {
		return nil, errors.New("firestore project id is not set")
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials: %w", err)
	}
	opt := option.WithCredentialsFile(credentialsPath)

	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	log.WithField("project", projectID).Info("✅ Connected to Firestore")

	db := &FirestoreDB{client: client}
	db.documentReader = documentReader{fetch: db.documents, log: log}
	return db, nil
}

// Close closes the Firestore client
func (db *FirestoreDB) Close() error {
	return db.client.Close()
}

// documents reads every document of a collection, re-encoded as JSON so they share one decoder with the
// other stores. The document id is added as _id when the document does not carry one.
func (db *FirestoreDB) documents(ctx context.Context, collection string) ([]json.RawMessage, error) {
	iter := db.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	var docs []json.RawMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
		}

		raw, err := firestoreDocument(doc.Ref.ID, doc.Data())
		if err != nil {
			db.log.WithError(err).WithField("doc", doc.Ref.ID).Warn("⚠️  Skipping unreadable document")
			continue
		}
		docs = append(docs, raw)
	}

	return docs, nil
}

func firestoreDocument(id string, data map[string]interface{}) (json.RawMessage, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["_id"]; !ok {
		data["_id"] = id
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", id, err)
	}
	return raw, nil
}

// Seed writes every record of ds into its collection, keyed by the record's _id.
func (db *FirestoreDB) Seed(ctx context.Context, ds models.Dataset) error {
	if err := seedCollection(ctx, db.client, UsersCollection, ds.Users); err != nil {
		return err
	}
	if err := seedCollection(ctx, db.client, JobsCollection, ds.Jobs); err != nil {
		return err
	}
	return seedCollection(ctx, db.client, ShiftsCollection, ds.Shifts)
}

func seedCollection[T any](ctx context.Context, client *firestore.Client, collection string, records []T) error {
	for i, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode %s record %d: %w", collection, i, err)
		}
		var data map[string]interface{}
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to encode %s record %d: %w", collection, i, err)
		}

		ref := client.Collection(collection).NewDoc()
		if id, ok := documentID(data["_id"]); ok {
			ref = client.Collection(collection).Doc(id)
		}
		if _, err := ref.Set(ctx, data); err != nil {
			return fmt.Errorf("failed to seed %s record %d: %w", collection, i, err)
		}
	}
	return nil
}

// documentID extracts a bare or {"$oid": ...} identifier.
func documentID(v interface{}) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case map[string]interface{}:
		s, ok := id["$oid"].(string)
		return s, ok && s != ""
	}
	return "", false
}
