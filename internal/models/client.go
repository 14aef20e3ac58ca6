package models

import "time"

// Client represents a customer. Time entries and invoices reference it by
// Name only.
type Client struct {
	// ID is the unique identifier for the client (UUID format).
	ID string `bson:"_id"`

	// Name is the display name and the join key used by other records.
	Name string `bson:"name"`

	Email   string `bson:"email,omitempty"`
	Phone   string `bson:"phone,omitempty"`
	Address string `bson:"address,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
}
