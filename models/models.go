// models.go
// Defines the patrol records read from the user, job and shift collections.
// Every loosely typed field is a Value so a record never fails to decode because one field has an unexpected shape.

package models

import "encoding/json"

// User is an officer account from the users collection.
type User struct {
	ID       Value `json:"_id"`
	Name     Value `json:"name"`
	Email    Value `json:"email"`
	Role     Value `json:"role"`
	Location Value `json:"location"`
}

// Job is a site/property assignment from the job_details collection.
type Job struct {
	ID                   Value `json:"_id"`
	PropertyName         Value `json:"propertyName"`
	PropertyAddress      Value `json:"propertyAddress"`
	BuildingNo           Value `json:"buildingNo"`
	PropertyManagerName  Value `json:"propertyManagerName"`
	PropertyManagerPhone Value `json:"propertyManagerPhone"`
	ManagerID            Value `json:"managerId"`
}

// Coordinate is one GPS fix recorded during a shift.
type Coordinate struct {
	Latitude  Value `json:"latitude"`
	Longitude Value `json:"longitude"`
	Timestamp Value `json:"timestamp"`
}

// Shift is one officer's work session from the shifts collection.
type Shift struct {
	ID          Value       `json:"_id"`
	UserID      Value       `json:"userID"`
	JobID       Value       `json:"jobID"`
	ManagerID   Value       `json:"managerID"`
	CurrentTime Value       `json:"currentTime"` // shift start
	EndTime     Value       `json:"endTime"`
	Status      Value       `json:"status"`
	Steps       Value       `json:"steps"`
	Coordinates Coordinates `json:"coordinates"`
	Notes       Values      `json:"notes"`
	Images      Values      `json:"images"`
}

// Coordinates decodes leniently: anything other than an array of objects yields no coordinates.
type Coordinates []Coordinate

func (c *Coordinates) UnmarshalJSON(data []byte) error {
	*c = nil
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	for _, item := range items {
		var coord Coordinate
		if err := json.Unmarshal(item, &coord); err != nil {
			continue
		}
		*c = append(*c, coord)
	}
	return nil
}

// Values decodes leniently: a single scalar becomes a one-element list, anything unreadable an empty one.
type Values []Value

func (vs *Values) UnmarshalJSON(data []byte) error {
	*vs = nil
	var items []Value
	if err := json.Unmarshal(data, &items); err == nil {
		*vs = items
		return nil
	}
	var single Value
	if err := single.UnmarshalJSON(data); err == nil && !single.IsMissing() {
		*vs = Values{single}
	}
	return nil
}

// Dataset holds the three collections a report is resolved from.
type Dataset struct {
	Users  []User
	Jobs   []Job
	Shifts []Shift
}
