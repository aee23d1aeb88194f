package db

import (
	"context"
	"firewatch/models"
	"slices"
	"sync"
)

// MemoryDB is an in-memory source over already decoded records.
type MemoryDB struct {
	mu     sync.RWMutex
	users  []models.User
	jobs   []models.Job
	shifts []models.Shift
	closed bool
}

// NewMemoryDB creates a source holding a copy of ds.
func NewMemoryDB(ds models.Dataset) *MemoryDB {
	return &MemoryDB{
		users:  slices.Clone(ds.Users),
		jobs:   slices.Clone(ds.Jobs),
		shifts: slices.Clone(ds.Shifts),
	}
}

func (db *MemoryDB) Users(context.Context) ([]models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.users), nil
}

func (db *MemoryDB) Jobs(context.Context) ([]models.Job, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.jobs), nil
}

func (db *MemoryDB) Shifts(context.Context) ([]models.Shift, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.shifts), nil
}

// AddShift appends a shift record.
func (db *MemoryDB) AddShift(s models.Shift) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.shifts = append(db.shifts, s)
}

// Close marks the source closed. Reads keep working.
func (db *MemoryDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (db *MemoryDB) Closed() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.closed
}
