package db

import (
	"context"
	"errors"
	"firewatch/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// LoadDataset fetches the three collections concurrently. A collection that cannot be read is logged and
// treated as empty, so LoadDataset never fails.
func LoadDataset(ctx context.Context, src Source, log logrus.FieldLogger) models.Dataset {
	log = orDiscard(log)
	var ds models.Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ds.Users = load(gctx, log, UsersCollection, src.Users)
		return nil
	})
	g.Go(func() error {
		ds.Jobs = load(gctx, log, JobsCollection, src.Jobs)
		return nil
	})
	g.Go(func() error {
		ds.Shifts = load(gctx, log, ShiftsCollection, src.Shifts)
		return nil
	})
	_ = g.Wait()

	log.WithFields(logrus.Fields{
		"users":  len(ds.Users),
		"jobs":   len(ds.Jobs),
		"shifts": len(ds.Shifts),
	}).Info("📋 Loaded records")
	return ds
}

func load[T any](ctx context.Context, log logrus.FieldLogger, collection string, fetch func(context.Context) ([]T, error)) []T {
	recs, err := fetch(ctx)
	if err == nil {
		return recs
	}
	entry := log.WithField("collection", collection)
	if errors.Is(err, ErrNotFound) {
		entry.Warn("⚠️  Collection not found, treating as empty")
	} else {
		entry.WithError(err).Warn("⚠️  Failed to load collection, treating as empty")
	}
	return nil
}
