package models

import (
	"errors"
	"time"
)

// ErrEndBeforeStart is returned when a time entry's end is not strictly
// after its start.
var ErrEndBeforeStart = errors.New("End time must be after start time")

// TimeEntry represents a block of tracked work.
type TimeEntry struct {
	// ID is the unique identifier for the entry (UUID format), assigned by storage.
	ID string `bson:"_id"`

	// FreelancerID identifies who did the work.
	FreelancerID string `bson:"freelancerId"`

	// Project is an optional free-text project label.
	Project string `bson:"project,omitempty"`

	// ClientName is a soft reference to Client.Name.
	ClientName string `bson:"clientName"`

	StartTime time.Time `bson:"startTime"`
	EndTime   time.Time `bson:"endTime"`

	Description string `bson:"description,omitempty"`

	// BillableRate is the currency amount charged per hour.
	BillableRate float64 `bson:"billableRate"`

	// CreatedAt and UpdatedAt are assigned by storage.
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Validate checks the invariants that must hold before the entry is
// persisted. Stores call it on every write, after the service layer has
// already validated the request.
func (e *TimeEntry) Validate() error {
	if e.FreelancerID == "" {
		return errors.New("freelancerId is required")
	}
	if e.ClientName == "" {
		return errors.New("clientName is required")
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return errors.New("startTime and endTime are required")
	}
	if !e.EndTime.After(e.StartTime) {
		return ErrEndBeforeStart
	}
	if e.BillableRate < 0 {
		return errors.New("billableRate must be non-negative")
	}
	return nil
}
