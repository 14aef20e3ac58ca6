// Package mongostore provides a MongoDB implementation of the
// storage.Store interface.
//
// Each record type lives in its own collection and uses its UUID as _id.
// Time entry IDs referenced by an invoice are embedded in the invoice
// document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/harsh-0015/freelance-tracker/internal/models"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

const (
	timeEntriesCollection = "timeentries"
	invoicesCollection    = "invoices"
	clientsCollection     = "clients"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using MongoDB.
type Store struct {
	client      *mongo.Client
	timeEntries *mongo.Collection
	invoices    *mongo.Collection
	clients     *mongo.Collection
}

// New connects to MongoDB, verifies the connection and ensures indexes
// exist on the sort keys.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:      client,
		timeEntries: db.Collection(timeEntriesCollection),
		invoices:    db.Collection(invoicesCollection),
		clients:     db.Collection(clientsCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll *mongo.Collection
		key  string
	}{
		{s.timeEntries, "createdAt"},
		{s.invoices, "generatedAt"},
		{s.invoices, "clientName"},
		{s.clients, "createdAt"},
	}
	for _, idx := range indexes {
		_, err := idx.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: idx.key, Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("failed to create index on %s.%s: %w", idx.coll.Name(), idx.key, err)
		}
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping verifies the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return nil
}

// CreateTimeEntry persists a new time entry.
func (s *Store) CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}
	normalizeEntry(entry)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidRecord, err)
	}

	if _, err := s.timeEntries.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert time entry: %w", err)
	}
	return nil
}

// GetTimeEntry retrieves a time entry by ID.
func (s *Store) GetTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	entry := &models.TimeEntry{}
	err := s.timeEntries.FindOne(ctx, bson.M{"_id": id}).Decode(entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("time entry %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}
	return entry, nil
}

// GetTimeEntries retrieves the entries with the given IDs, in the order of
// ids. IDs that don't exist are omitted from the result.
func (s *Store) GetTimeEntries(ctx context.Context, ids []string) ([]*models.TimeEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := s.timeEntries.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get time entries by IDs: %w", err)
	}

	var found []*models.TimeEntry
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode time entries: %w", err)
	}

	byID := make(map[string]*models.TimeEntry, len(found))
	for _, entry := range found {
		byID[entry.ID] = entry
	}

	entries := make([]*models.TimeEntry, 0, len(found))
	for _, id := range ids {
		if entry, ok := byID[id]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ListTimeEntries retrieves all time entries, newest first.
func (s *Store) ListTimeEntries(ctx context.Context) ([]*models.TimeEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.timeEntries.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	entries := []*models.TimeEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode time entries: %w", err)
	}
	return entries, nil
}

// UpdateTimeEntry replaces an existing time entry document.
func (s *Store) UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	entry.UpdatedAt = time.Now()
	normalizeEntry(entry)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidRecord, err)
	}

	result, err := s.timeEntries.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	if err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("time entry %s: %w", entry.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteTimeEntry removes a time entry and returns it as it was stored.
func (s *Store) DeleteTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	entry := &models.TimeEntry{}
	err := s.timeEntries.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("time entry %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete time entry: %w", err)
	}
	return entry, nil
}

// CreateInvoice persists a new invoice.
func (s *Store) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	if invoice.UpdatedAt.IsZero() {
		invoice.UpdatedAt = invoice.CreatedAt
	}
	if invoice.GeneratedAt.IsZero() {
		invoice.GeneratedAt = invoice.CreatedAt
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusPending
	}
	invoice.GeneratedAt = normalizeTime(invoice.GeneratedAt)
	invoice.CreatedAt = normalizeTime(invoice.CreatedAt)
	invoice.UpdatedAt = normalizeTime(invoice.UpdatedAt)

	if !invoice.Status.Valid() {
		return fmt.Errorf("%w: unknown invoice status %q", storage.ErrInvalidRecord, invoice.Status)
	}

	if _, err := s.invoices.InsertOne(ctx, invoice); err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

// GetInvoice retrieves an invoice by ID.
func (s *Store) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := s.invoices.FindOne(ctx, bson.M{"_id": id}).Decode(invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices retrieves all invoices, most recently generated first.
func (s *Store) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "generatedAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.invoices.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := []*models.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice by ID.
func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	result, err := s.invoices.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// CreateClient persists a new client.
func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now()
	}
	client.CreatedAt = normalizeTime(client.CreatedAt)

	if _, err := s.clients.InsertOne(ctx, client); err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	client := &models.Client{}
	err := s.clients.FindOne(ctx, bson.M{"_id": id}).Decode(client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("client %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// ListClients retrieves all clients, newest first.
func (s *Store) ListClients(ctx context.Context) ([]*models.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.clients.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := []*models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}
	return clients, nil
}

// DeleteClient removes a client by ID.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	result, err := s.clients.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("client %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// normalizeTime drops precision BSON datetimes cannot hold.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func normalizeEntry(entry *models.TimeEntry) {
	entry.StartTime = normalizeTime(entry.StartTime)
	entry.EndTime = normalizeTime(entry.EndTime)
	entry.CreatedAt = normalizeTime(entry.CreatedAt)
	entry.UpdatedAt = normalizeTime(entry.UpdatedAt)
}
