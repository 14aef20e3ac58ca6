package models

import "time"

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusSent,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice represents billed totals for one client.
//
// Invoices are never updated in place; they are created and deleted.
type Invoice struct {
	// ID is the unique identifier for the invoice (UUID format).
	ID string `bson:"_id"`

	FreelancerID   string `bson:"freelancerId"`
	FreelancerName string `bson:"freelancerName,omitempty"`

	// ClientName is a soft reference to Client.Name.
	ClientName string `bson:"clientName"`
	Project    string `bson:"project,omitempty"`

	// TotalHours and TotalAmount are rounded to 2 decimals before storage.
	TotalHours  float64  `bson:"totalHours"`
	TotalAmount float64  `bson:"totalAmount"`
	RatePerHour *float64 `bson:"ratePerHour,omitempty"`

	// HoursBilled is stored as supplied and never computed.
	HoursBilled *float64 `bson:"hoursBilled,omitempty"`

	Status      InvoiceStatus `bson:"status"`
	GeneratedAt time.Time     `bson:"generatedAt"`

	// TimeEntryIDs are weak references to time entries. Referenced entries
	// may have been deleted since.
	TimeEntryIDs []string `bson:"timeEntryIds,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
