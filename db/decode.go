package db

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// splitDocuments parses a collection export, a JSON array of documents.
func splitDocuments(data []byte) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse collection: %w", err)
	}
	return docs, nil
}

// decodeRecords decodes each document on its own, skipping any that are not JSON objects or fail to decode.
func decodeRecords[T any](docs []json.RawMessage, collection string, log logrus.FieldLogger) []T {
	out := make([]T, 0, len(docs))
	for i, doc := range docs {
		var rec T
		if err := decodeObject(doc, &rec); err != nil {
			log.WithFields(logrus.Fields{
				"collection": collection,
				"index":      i,
			}).WithError(err).Warn("⚠️  Skipping malformed record")
			continue
		}
		out = append(out, rec)
	}
	return out
}

func decodeObject(doc json.RawMessage, v any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return fmt.Errorf("record is not an object: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("record is null")
	}
	return json.Unmarshal(doc, v)
}
