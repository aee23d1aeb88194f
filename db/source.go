// Package db reads the users, job_details and shifts collections from one of several record stores.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"firewatch/config"
	"firewatch/models"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownDriver is returned by Open for a driver name it does not support.
	ErrUnknownDriver = errors.New("unknown source driver")
	// ErrNotFound marks a collection that does not exist in the store.
	ErrNotFound = errors.New("collection not found")
)

// Collection names shared by every store.
const (
	UsersCollection  = "users"
	JobsCollection   = "job_details"
	ShiftsCollection = "shifts"
)

// Source is a read-only handle on the three collections a report is built from.
type Source interface {
	Users(ctx context.Context) ([]models.User, error)
	Jobs(ctx context.Context) ([]models.Job, error)
	Shifts(ctx context.Context) ([]models.Shift, error)
	Close() error
}

// Open connects to the store selected by cfg.Source.Driver. The caller owns the handle and must Close it.
func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (Source, error) {
	switch strings.ToLower(cfg.Source.Driver) {
	case config.DriverJSON:
		return NewJSONFileDB(cfg.Source.DataDir, FileNames{
			Users:  cfg.Source.UsersFile,
			Jobs:   cfg.Source.JobsFile,
			Shifts: cfg.Source.ShiftsFile,
		}, log), nil
	case config.DriverFirestore:
		fs, err := NewFirestoreDB(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath, log)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.DriverMongo:
		mdb, err := NewMongoDB(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		return mdb, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Source.Driver)
	}
}

// documentReader implements the typed collection accessors over a store that yields raw JSON documents.
type documentReader struct {
	fetch func(ctx context.Context, collection string) ([]json.RawMessage, error)
	log   logrus.FieldLogger
}

func (r documentReader) Users(ctx context.Context) ([]models.User, error) {
	return readCollection[models.User](ctx, r, UsersCollection)
}

func (r documentReader) Jobs(ctx context.Context) ([]models.Job, error) {
	return readCollection[models.Job](ctx, r, JobsCollection)
}

func (r documentReader) Shifts(ctx context.Context) ([]models.Shift, error) {
	return readCollection[models.Shift](ctx, r, ShiftsCollection)
}

func readCollection[T any](ctx context.Context, r documentReader, collection string) ([]T, error) {
	docs, err := r.fetch(ctx, collection)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](docs, collection, r.log), nil
}
