package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harsh-0015/freelance-tracker/internal/calculator"
	"github.com/harsh-0015/freelance-tracker/internal/models"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

const resourceInvoice = "Invoice"

// InvoiceService owns the lifecycle of invoices. Invoices are created and
// deleted but never updated.
type InvoiceService struct {
	store    storage.Store
	settings Settings
}

// NewInvoiceService creates a new InvoiceService with the given storage backend.
func NewInvoiceService(store storage.Store, settings Settings) *InvoiceService {
	return &InvoiceService{store: store, settings: settings.withDefaults()}
}

// Create validates the input, rounds the totals and persists a new invoice
// generated now.
func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (*InvoiceView, error) {
	slog.Info("CreateInvoice request received",
		"freelancer_id", deref(in.FreelancerID),
		"client_name", deref(in.ClientName),
		"time_entries", len(in.TimeEntryIDs),
	)

	invoice, err := in.validateCreate()
	if err != nil {
		slog.Warn("CreateInvoice rejected", "error", err)
		return nil, err
	}

	invoice.TotalHours = calculator.Round2(invoice.TotalHours)
	invoice.TotalAmount = calculator.Round2(invoice.TotalAmount)
	invoice.GeneratedAt = s.settings.Clock.Now()

	// References are resolved before the write so a failed lookup leaves
	// nothing behind.
	entries, err := s.store.GetTimeEntries(ctx, invoice.TimeEntryIDs)
	if err != nil {
		slog.Error("CreateInvoice failed to resolve time entries", "error", err)
		return nil, fmt.Errorf("failed to resolve time entries: %w", err)
	}

	if err := s.store.CreateInvoice(ctx, invoice); err != nil {
		slog.Error("CreateInvoice failed", "error", err)
		return nil, fmt.Errorf("failed to create invoice: %w", fromStoreError(err))
	}

	slog.Info("Invoice created", "invoice_id", invoice.ID, "total_amount", invoice.TotalAmount)
	view := NewInvoiceView(invoice, visibleEntries(ctx, entries), s.settings.Location)
	return &view, nil
}

// List returns all invoices, most recently generated first, with their
// time entry references resolved.
func (s *InvoiceService) List(ctx context.Context) ([]InvoiceView, error) {
	slog.Info("ListInvoices request received")

	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		slog.Error("ListInvoices failed", "error", err)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	invoices = visibleInvoices(ctx, invoices)

	// Resolve every reference with a single lookup.
	var ids []string
	seen := make(map[string]bool)
	for _, inv := range invoices {
		for _, id := range inv.TimeEntryIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	entries, err := s.store.GetTimeEntries(ctx, ids)
	if err != nil {
		slog.Error("ListInvoices failed to resolve time entries", "error", err)
		return nil, fmt.Errorf("failed to resolve time entries: %w", err)
	}
	byID := make(map[string]*models.TimeEntry, len(entries))
	for _, e := range visibleEntries(ctx, entries) {
		byID[e.ID] = e
	}

	views := make([]InvoiceView, len(invoices))
	for i, inv := range invoices {
		var resolved []*models.TimeEntry
		for _, id := range inv.TimeEntryIDs {
			if e, ok := byID[id]; ok {
				resolved = append(resolved, e)
			}
		}
		views[i] = NewInvoiceView(inv, resolved, s.settings.Location)
	}

	slog.Info("ListInvoices successful", "count", len(views))
	return views, nil
}

// Get returns one invoice with its time entry references resolved.
func (s *InvoiceService) Get(ctx context.Context, id string) (*InvoiceView, error) {
	slog.Info("GetInvoice request received", "invoice_id", id)

	invoice, err := s.load(ctx, id)
	if err != nil {
		slog.Error("GetInvoice failed", "invoice_id", id, "error", err)
		return nil, err
	}

	entries, err := s.store.GetTimeEntries(ctx, invoice.TimeEntryIDs)
	if err != nil {
		slog.Error("GetInvoice failed to resolve time entries", "invoice_id", id, "error", err)
		return nil, fmt.Errorf("failed to resolve time entries: %w", err)
	}

	view := NewInvoiceView(invoice, visibleEntries(ctx, entries), s.settings.Location)
	return &view, nil
}

// Delete removes an invoice. Referenced time entries are left untouched.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	slog.Info("DeleteInvoice request received", "invoice_id", id)

	if scopedFreelancer(ctx) != "" {
		if _, err := s.load(ctx, id); err != nil {
			slog.Error("DeleteInvoice failed", "invoice_id", id, "error", err)
			return err
		}
	}

	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		slog.Error("DeleteInvoice failed", "invoice_id", id, "error", err)
		return notFound(err, resourceInvoice, id)
	}

	slog.Info("Invoice deleted", "invoice_id", id)
	return nil
}

// TopClients groups all invoices by client name and returns the clients
// with the most invoices.
func (s *InvoiceService) TopClients(ctx context.Context) ([]TopClientView, error) {
	slog.Info("TopClients request received")

	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		slog.Error("TopClients failed", "error", err)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	invoices = visibleInvoices(ctx, invoices)

	input := make([]calculator.InvoiceForAggregation, len(invoices))
	for i, inv := range invoices {
		input[i] = calculator.InvoiceForAggregation{
			ClientName:  inv.ClientName,
			TotalAmount: inv.TotalAmount,
		}
	}

	totals := calculator.TopClients(input, calculator.TopClientsLimit)
	views := make([]TopClientView, len(totals))
	for i, t := range totals {
		views[i] = TopClientView{
			Name:          t.Name,
			TotalInvoices: t.TotalInvoices,
			TotalAmount:   t.TotalAmount,
		}
	}

	slog.Info("TopClients successful", "groups", len(views))
	return views, nil
}

// load reads an invoice visible under ctx. Invoices of another freelancer
// are reported as not found.
func (s *InvoiceService) load(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, notFound(err, resourceInvoice, id)
	}
	if !visibleTo(ctx, invoice.FreelancerID) {
		return nil, &NotFoundError{Resource: resourceInvoice, ID: id}
	}
	return invoice, nil
}
