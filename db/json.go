package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileNames maps each collection to its export file inside the data directory.
type FileNames struct {
	Users  string
	Jobs   string
	Shifts string
}

// DefaultFileNames are the names collections are exported under.
var DefaultFileNames = FileNames{
	Users:  "users.json",
	Jobs:   "job_details.json",
	Shifts: "shifts.json",
}

// JSONFileDB reads collections exported as JSON arrays, one file per collection.
type JSONFileDB struct {
	documentReader
	dir   string
	files FileNames
}

// NewJSONFileDB creates a source over dir. Empty file names fall back to DefaultFileNames.
func NewJSONFileDB(dir string, files FileNames, log logrus.FieldLogger) *JSONFileDB {
	if files.Users == "" {
		files.Users = DefaultFileNames.Users
	}
	if files.Jobs == "" {
		files.Jobs = DefaultFileNames.Jobs
	}
	if files.Shifts == "" {
		files.Shifts = DefaultFileNames.Shifts
	}
	db := &JSONFileDB{dir: dir, files: files}
	db.documentReader = documentReader{fetch: db.documents, log: orDiscard(log)}
	return db
}

// Close is a no-op; files are read and closed per collection.
func (db *JSONFileDB) Close() error { return nil }

func (db *JSONFileDB) documents(_ context.Context, collection string) ([]json.RawMessage, error) {
	path := filepath.Join(db.dir, db.fileFor(collection))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	docs, err := splitDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

func (db *JSONFileDB) fileFor(collection string) string {
	switch collection {
	case UsersCollection:
		return db.files.Users
	case JobsCollection:
		return db.files.Jobs
	default:
		return db.files.Shifts
	}
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
