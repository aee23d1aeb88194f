// Package report merges the resolved user, job and shift into the view model every later stage renders.
// A Model never has an empty required field: absent data is replaced here, so layout code does no absence checks.
package report

import (
	"firewatch/models"
	"fmt"
	"strings"
	"time"
)

// NotAvailable is the placeholder for any absent field.
const NotAvailable = "N/A"

const (
	dateTimeLayout = "January 02, 2006 03:04 PM"
	clockLayout    = "03:04:05 PM"
	dateLayout     = "January 02, 2006"
)

// CoordinateRow is one formatted GPS fix.
type CoordinateRow struct {
	Time      string
	Latitude  string
	Longitude string
}

// Model is the fully resolved report view.
type Model struct {
	UserID string

	PropertyName    string
	PropertyAddress string
	BuildingNo      string
	ManagerName     string
	ManagerPhone    string

	OfficerName  string
	OfficerEmail string
	Role         string
	Location     string

	StartTime string
	Status    string
	Steps     string

	Coordinates []CoordinateRow
	Notes       []string

	GeneratedAt   time.Time
	GeneratedDate string
}

// DemoUser is the synthetic officer used when no user record can be resolved.
func DemoUser(userID string) models.User {
	return models.User{
		ID:       models.RawValue(userID),
		Email:    models.RawValue(fmt.Sprintf("demo_%s@redline.com", userID)),
		Name:     models.RawValue("Demo User"),
		Role:     models.RawValue("Patrol Officer"),
		Location: models.RawValue("Main Office"),
	}
}

// DemoJob is the synthetic site used when no job record can be resolved.
func DemoJob() models.Job {
	return models.Job{
		ID:                   models.RawValue("demo_job"),
		PropertyName:         models.RawValue("Demo Property"),
		PropertyAddress:      models.RawValue("123 Main St"),
		BuildingNo:           models.RawValue("A1"),
		PropertyManagerName:  models.RawValue("Property Manager"),
		PropertyManagerPhone: models.RawValue("555-1234"),
	}
}

// DemoShift is the synthetic shift used when the shift collection is empty.
func DemoShift(userID string, now time.Time) models.Shift {
	return models.Shift{
		UserID:      models.RawValue(userID),
		JobID:       models.RawValue("demo_job"),
		CurrentTime: models.TimeValue(now),
		Status:      models.RawValue("Completed"),
		Steps:       models.NumberValue(5000),
		Coordinates: models.Coordinates{
			{Timestamp: models.TimeValue(now), Latitude: models.NumberValue(34.0522), Longitude: models.NumberValue(-118.2437)},
			{Timestamp: models.TimeValue(now), Latitude: models.NumberValue(34.0523), Longitude: models.NumberValue(-118.2438)},
		},
	}
}

// Build merges the three records. Callers pass the demo records for anything they could not resolve.
func Build(userID string, user models.User, job models.Job, shift models.Shift, now time.Time) Model {
	email := text(user.Email)
	m := Model{
		UserID: userID,

		PropertyName:    text(job.PropertyName),
		PropertyAddress: text(job.PropertyAddress),
		BuildingNo:      text(job.BuildingNo),
		ManagerName:     text(job.PropertyManagerName),
		ManagerPhone:    text(job.PropertyManagerPhone),

		OfficerName:  displayName(user.Name, email),
		OfficerEmail: email,
		Role:         text(user.Role),
		Location:     text(user.Location),

		StartTime: FormatTime(shift.CurrentTime, dateTimeLayout),
		Status:    text(shift.Status),
		Steps:     text(shift.Steps),

		GeneratedAt:   now,
		GeneratedDate: now.Format(dateLayout),
	}

	for _, c := range shift.Coordinates {
		m.Coordinates = append(m.Coordinates, CoordinateRow{
			Time:      FormatTime(c.Timestamp, clockLayout),
			Latitude:  FormatDegrees(c.Latitude),
			Longitude: FormatDegrees(c.Longitude),
		})
	}
	for _, n := range shift.Notes {
		if n.IsMissing() {
			continue
		}
		m.Notes = append(m.Notes, n.String())
	}
	return m
}

// FormatTime renders a timestamp with layout, falls back to the raw text when it cannot be parsed,
// and to NotAvailable when it is absent.
func FormatTime(v models.Value, layout string) string {
	if v.Key() == "" {
		return NotAvailable
	}
	if t, ok := v.Time(); ok {
		return t.Format(layout)
	}
	return text(v)
}

// FormatDegrees renders numeric coordinates with six decimals and anything else as stored.
func FormatDegrees(v models.Value) string {
	if f, ok := v.Float(); ok {
		return fmt.Sprintf("%.6f", f)
	}
	return text(v)
}

func text(v models.Value) string {
	if v.IsMissing() {
		return NotAvailable
	}
	return v.String()
}

// displayName prefers an explicit name, then the local part of the email address.
func displayName(name models.Value, email string) string {
	if !name.IsMissing() {
		return name.String()
	}
	if local, _, found := strings.Cut(email, "@"); found {
		return local
	}
	return NotAvailable
}
