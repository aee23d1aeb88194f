package db

import (
	"encoding/json"
	"firewatch/models"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FixtureUserID is the officer the fixture shifts belong to.
const FixtureUserID = "64f1c0ffee0000000000a001"

// FixtureDataset is a small demo dataset mixing bare and extended-JSON encodings, the way exported
// collections look in practice.
func FixtureDataset(now time.Time) models.Dataset {
	start := now.Add(-3 * time.Hour).UTC().Truncate(time.Second)

	var coords models.Coordinates
	for i := 0; i < 8; i++ {
		coords = append(coords, models.Coordinate{
			Timestamp: models.TimeValue(start.Add(time.Duration(i) * 10 * time.Minute)),
			Latitude:  models.NumberValue(34.0522 + float64(i)*0.0001),
			Longitude: models.NumberValue(-118.2437 - float64(i)*0.0001),
		})
	}

	return models.Dataset{
		Users: []models.User{
			{
				ID:       models.WrappedValue(FixtureUserID),
				Name:     models.RawValue("Jordan Reyes"),
				Email:    models.RawValue("jordan.reyes@redline.com"),
				Role:     models.RawValue("Fire Watch Officer"),
				Location: models.RawValue("Downtown"),
			},
			{
				ID:    models.RawValue("officer-2"),
				Email: models.RawValue("sam.lee@redline.com"),
			},
		},
		Jobs: []models.Job{
			{
				ID:                   models.WrappedValue("64f1c0ffee0000000000b001"),
				PropertyName:         models.RawValue("Harbor View Towers"),
				PropertyAddress:      models.RawValue("400 Harbor Blvd"),
				BuildingNo:           models.RawValue("B2"),
				PropertyManagerName:  models.RawValue("Alex Kim"),
				PropertyManagerPhone: models.RawValue("555-0142"),
			},
		},
		Shifts: []models.Shift{
			{
				ID:          models.WrappedValue("64f1c0ffee0000000000c001"),
				UserID:      models.WrappedValue(FixtureUserID),
				JobID:       models.WrappedValue("64f1c0ffee0000000000b001"),
				CurrentTime: models.TimeValue(start),
				EndTime:     models.TimeValue(start.Add(3 * time.Hour)),
				Status:      models.RawValue("Completed"),
				Steps:       models.NumberValue(7421),
				Coordinates: coords,
				Notes: models.Values{
					models.RawValue("All exits clear."),
					models.RawValue("Sprinkler riser room locked."),
				},
			},
			{
				ID:          models.RawValue("shift-2"),
				UserID:      models.RawValue("officer-2"),
				CurrentTime: models.RawValue(start.Add(-24 * time.Hour).Format(time.RFC3339)),
				Status:      models.RawValue("In Progress"),
			},
		},
	}
}

// WriteFixtures writes ds into dir as the three collection export files.
func WriteFixtures(dir string, ds models.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create fixture dir: %w", err)
	}
	files := []struct {
		name string
		v    any
	}{
		{DefaultFileNames.Users, ds.Users},
		{DefaultFileNames.Jobs, ds.Jobs},
		{DefaultFileNames.Shifts, ds.Shifts},
	}
	for _, f := range files {
		data, err := json.MarshalIndent(f.v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}
	return nil
}
