package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harsh-0015/freelance-tracker/internal/calculator"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

// DashboardService summarizes time entries, invoices and clients for the
// dashboard. It reads the same derived views the other services return.
type DashboardService struct {
	store    storage.Store
	settings Settings
}

// NewDashboardService creates a new DashboardService with the given storage backend.
func NewDashboardService(store storage.Store, settings Settings) *DashboardService {
	return &DashboardService{store: store, settings: settings.withDefaults()}
}

// Summary computes today's and this week's hours, the pending invoice total,
// the client count and the recent-activity feed.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardView, error) {
	slog.Info("Dashboard request received")
	loc := s.settings.Location

	entries, err := s.store.ListTimeEntries(ctx)
	if err != nil {
		slog.Error("Dashboard failed - could not list time entries", "error", err)
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		slog.Error("Dashboard failed - could not list invoices", "error", err)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		slog.Error("Dashboard failed - could not list clients", "error", err)
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	entries = visibleEntries(ctx, entries)
	invoices = visibleInvoices(ctx, invoices)

	entryInput := make([]calculator.EntryForDashboard, len(entries))
	for i, e := range entries {
		view := NewTimeEntryView(e, loc)
		entryInput[i] = calculator.EntryForDashboard{
			Hours:  view.Hours,
			Client: view.Client,
			Date:   view.Date,
		}
	}
	invoiceInput := make([]calculator.InvoiceForDashboard, len(invoices))
	for i, inv := range invoices {
		view := NewInvoiceView(inv, nil, loc)
		invoiceInput[i] = calculator.InvoiceForDashboard{
			Amount: view.Amount,
			Client: view.Client,
			Status: view.Status,
			Date:   view.Date,
		}
	}

	now := s.settings.Clock.Now().In(loc)
	summary := calculator.Summarize(now, entryInput, invoiceInput, len(clients), s.settings.Currency)

	activity := make([]ActivityView, len(summary.RecentActivity))
	for i, a := range summary.RecentActivity {
		activity[i] = ActivityView{Type: a.Type, Detail: a.Detail, Date: a.Date}
	}

	slog.Info("Dashboard successful",
		"today_hours", summary.TodayHours,
		"week_hours", summary.WeekHours,
		"pending", summary.PendingInvoices,
	)
	return &DashboardView{
		TodayHours:      summary.TodayHours,
		WeekHours:       summary.WeekHours,
		PendingInvoices: summary.PendingInvoices,
		ActiveClients:   summary.ActiveClients,
		RecentActivity:  activity,
	}, nil
}
