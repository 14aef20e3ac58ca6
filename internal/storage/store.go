// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/harsh-0015/freelance-tracker/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable is returned while the store has not connected yet.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrInvalidRecord is returned when a record fails model validation
	// at write time.
	ErrInvalidRecord = errors.New("invalid record")
)

// Store defines the interface for record storage operations.
// This abstraction allows swapping storage backends (SQLite, MySQL, MongoDB)
// without changing the service layer.
//
// Every write is a single-record operation; there are no multi-record
// transactions at this level.
type Store interface {
	// CreateTimeEntry persists a new entry. The store assigns ID, CreatedAt
	// and UpdatedAt.
	CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error

	// GetTimeEntry returns ErrNotFound if no entry has the ID.
	GetTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error)

	// GetTimeEntries returns the entries whose IDs exist, in the order of ids.
	// Unknown IDs are skipped.
	GetTimeEntries(ctx context.Context, ids []string) ([]*models.TimeEntry, error)

	// ListTimeEntries returns all entries, newest CreatedAt first.
	ListTimeEntries(ctx context.Context) ([]*models.TimeEntry, error)

	// UpdateTimeEntry overwrites the stored entry and refreshes UpdatedAt.
	// Returns ErrNotFound if the entry does not exist.
	UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error

	// DeleteTimeEntry removes the entry and returns it as it was stored.
	DeleteTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error)

	// CreateInvoice persists a new invoice. The store assigns ID, CreatedAt
	// and UpdatedAt.
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error

	// GetInvoice returns ErrNotFound if no invoice has the ID.
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)

	// ListInvoices returns all invoices, newest GeneratedAt first.
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)

	// DeleteInvoice returns ErrNotFound if no invoice has the ID.
	DeleteInvoice(ctx context.Context, id string) error

	// CreateClient persists a new client. The store assigns ID and CreatedAt.
	CreateClient(ctx context.Context, client *models.Client) error

	// GetClient returns ErrNotFound if no client has the ID.
	GetClient(ctx context.Context, id string) (*models.Client, error)

	// ListClients returns all clients, newest first.
	ListClients(ctx context.Context) ([]*models.Client, error)

	// DeleteClient returns ErrNotFound if no client has the ID.
	DeleteClient(ctx context.Context, id string) error

	// Ping verifies the connection to the backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
