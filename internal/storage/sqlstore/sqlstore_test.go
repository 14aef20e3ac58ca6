package sqlstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harsh-0015/freelance-tracker/internal/models"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "freelance-tracker-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	dbPath := filepath.Join(tempDir, "nested", "test.db")
	store, err := New(context.Background(), DriverSQLite, dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func sampleEntry(client string) *models.TimeEntry {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return &models.TimeEntry{
		FreelancerID: "f1",
		Project:      "Website",
		ClientName:   client,
		StartTime:    start,
		EndTime:      start.Add(150 * time.Minute),
		Description:  "Landing page",
		BillableRate: 100,
	}
}

func TestTimeEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTimeEntry assigns ID and timestamps", func(t *testing.T) {
		entry := sampleEntry("Acme")
		if err := store.CreateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("CreateTimeEntry failed: %v", err)
		}

		if entry.ID == "" {
			t.Error("Expected entry ID to be generated")
		}
		if entry.CreatedAt.IsZero() || entry.UpdatedAt.IsZero() {
			t.Error("Expected CreatedAt and UpdatedAt to be set")
		}
		if !entry.CreatedAt.Equal(entry.UpdatedAt) {
			t.Errorf("Expected UpdatedAt == CreatedAt on create, got %v and %v", entry.UpdatedAt, entry.CreatedAt)
		}
	})

	t.Run("GetTimeEntry returns what was created", func(t *testing.T) {
		original := sampleEntry("Acme")
		original.StartTime = original.StartTime.Add(123456789 * time.Nanosecond)
		if err := store.CreateTimeEntry(ctx, original); err != nil {
			t.Fatalf("CreateTimeEntry failed: %v", err)
		}

		retrieved, err := store.GetTimeEntry(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetTimeEntry failed: %v", err)
		}

		assertEntryEqual(t, retrieved, original)
		if retrieved.StartTime.Nanosecond() != 123000000 {
			t.Errorf("Expected millisecond precision, got %d ns", retrieved.StartTime.Nanosecond())
		}
	})

	t.Run("CreateTimeEntry rejects end before start", func(t *testing.T) {
		entry := sampleEntry("Acme")
		entry.EndTime = entry.StartTime

		err := store.CreateTimeEntry(ctx, entry)
		if !errors.Is(err, storage.ErrInvalidRecord) {
			t.Fatalf("Expected ErrInvalidRecord, got %v", err)
		}
		if !errors.Is(err, models.ErrEndBeforeStart) {
			t.Errorf("Expected ErrEndBeforeStart in chain, got %v", err)
		}
	})

	t.Run("GetTimeEntry returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetTimeEntry(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetTimeEntries keeps order and skips unknown IDs", func(t *testing.T) {
		a, b := sampleEntry("A"), sampleEntry("B")
		for _, e := range []*models.TimeEntry{a, b} {
			if err := store.CreateTimeEntry(ctx, e); err != nil {
				t.Fatalf("CreateTimeEntry failed: %v", err)
			}
		}

		entries, err := store.GetTimeEntries(ctx, []string{b.ID, "missing", a.ID})
		if err != nil {
			t.Fatalf("GetTimeEntries failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}
		if entries[0].ID != b.ID || entries[1].ID != a.ID {
			t.Errorf("Expected order [%s %s], got [%s %s]", b.ID, a.ID, entries[0].ID, entries[1].ID)
		}

		empty, err := store.GetTimeEntries(ctx, nil)
		if err != nil || len(empty) != 0 {
			t.Errorf("Expected no entries for empty ids, got %v, %v", empty, err)
		}
	})

	t.Run("UpdateTimeEntry overwrites fields", func(t *testing.T) {
		entry := sampleEntry("Acme")
		entry.CreatedAt = time.Now().Add(-time.Hour)
		if err := store.CreateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("CreateTimeEntry failed: %v", err)
		}

		entry.ClientName = "Beta"
		entry.BillableRate = 80
		if err := store.UpdateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("UpdateTimeEntry failed: %v", err)
		}

		retrieved, err := store.GetTimeEntry(ctx, entry.ID)
		if err != nil {
			t.Fatalf("GetTimeEntry failed: %v", err)
		}
		if retrieved.ClientName != "Beta" || retrieved.BillableRate != 80 {
			t.Errorf("Expected updated fields, got %+v", retrieved)
		}
		if !retrieved.UpdatedAt.After(retrieved.CreatedAt) {
			t.Errorf("Expected UpdatedAt after CreatedAt, got %v <= %v", retrieved.UpdatedAt, retrieved.CreatedAt)
		}
	})

	t.Run("UpdateTimeEntry returns ErrNotFound", func(t *testing.T) {
		entry := sampleEntry("Acme")
		entry.ID = "missing"
		if err := store.UpdateTimeEntry(ctx, entry); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteTimeEntry returns the deleted entry", func(t *testing.T) {
		entry := sampleEntry("Acme")
		if err := store.CreateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("CreateTimeEntry failed: %v", err)
		}

		deleted, err := store.DeleteTimeEntry(ctx, entry.ID)
		if err != nil {
			t.Fatalf("DeleteTimeEntry failed: %v", err)
		}
		if deleted.ID != entry.ID {
			t.Errorf("Expected deleted ID %s, got %s", entry.ID, deleted.ID)
		}

		if _, err := store.GetTimeEntry(ctx, entry.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if _, err := store.DeleteTimeEntry(ctx, entry.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func assertEntryEqual(t *testing.T, got, want *models.TimeEntry) {
	t.Helper()
	if got.ID != want.ID || got.FreelancerID != want.FreelancerID || got.Project != want.Project ||
		got.ClientName != want.ClientName || got.Description != want.Description ||
		got.BillableRate != want.BillableRate {
		t.Errorf("Retrieved entry differs:\n got  %+v\n want %+v", got, want)
	}
	for _, pair := range [][2]time.Time{
		{got.StartTime, want.StartTime},
		{got.EndTime, want.EndTime},
		{got.CreatedAt, want.CreatedAt},
		{got.UpdatedAt, want.UpdatedAt},
	} {
		if !pair[0].Equal(pair[1]) {
			t.Errorf("Time mismatch: got %v, want %v", pair[0], pair[1])
		}
	}
}

func TestListTimeEntries_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		entry := sampleEntry("Acme")
		entry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.CreateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("CreateTimeEntry failed: %v", err)
		}
		ids = append(ids, entry.ID)
	}

	entries, err := store.ListTimeEntries(ctx)
	if err != nil {
		t.Fatalf("ListTimeEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if entries[i].ID != want {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].ID, want)
		}
	}
}

func TestInvoices(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rate := 50.0
	billed := 12.5

	t.Run("CreateInvoice and GetInvoice round trip", func(t *testing.T) {
		original := &models.Invoice{
			FreelancerID:   "f1",
			FreelancerName: "Sam",
			ClientName:     "Acme",
			Project:        "Website",
			TotalHours:     10,
			TotalAmount:    500,
			RatePerHour:    &rate,
			HoursBilled:    &billed,
			TimeEntryIDs:   []string{"e2", "e1", "e3"},
		}
		if err := store.CreateInvoice(ctx, original); err != nil {
			t.Fatalf("CreateInvoice failed: %v", err)
		}
		if original.Status != models.InvoiceStatusPending {
			t.Errorf("Expected default status pending, got %q", original.Status)
		}
		if original.GeneratedAt.IsZero() {
			t.Error("Expected GeneratedAt to be set")
		}

		retrieved, err := store.GetInvoice(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetInvoice failed: %v", err)
		}

		if retrieved.ClientName != "Acme" || retrieved.TotalAmount != 500 || retrieved.TotalHours != 10 {
			t.Errorf("Unexpected invoice: %+v", retrieved)
		}
		if retrieved.RatePerHour == nil || *retrieved.RatePerHour != 50 {
			t.Errorf("Expected ratePerHour 50, got %v", retrieved.RatePerHour)
		}
		if retrieved.HoursBilled == nil || *retrieved.HoursBilled != 12.5 {
			t.Errorf("Expected hoursBilled 12.5, got %v", retrieved.HoursBilled)
		}
		if !retrieved.GeneratedAt.Equal(original.GeneratedAt) {
			t.Errorf("Expected GeneratedAt %v, got %v", original.GeneratedAt, retrieved.GeneratedAt)
		}
		want := []string{"e2", "e1", "e3"}
		if len(retrieved.TimeEntryIDs) != len(want) {
			t.Fatalf("Expected %d time entry IDs, got %v", len(want), retrieved.TimeEntryIDs)
		}
		for i := range want {
			if retrieved.TimeEntryIDs[i] != want[i] {
				t.Errorf("TimeEntryIDs[%d] = %s, want %s", i, retrieved.TimeEntryIDs[i], want[i])
			}
		}
	})

	t.Run("Optional fields stay nil", func(t *testing.T) {
		invoice := &models.Invoice{
			FreelancerID: "f1",
			ClientName:   "Beta",
			TotalHours:   1,
			TotalAmount:  10,
			Status:       models.InvoiceStatusPaid,
		}
		if err := store.CreateInvoice(ctx, invoice); err != nil {
			t.Fatalf("CreateInvoice failed: %v", err)
		}

		retrieved, err := store.GetInvoice(ctx, invoice.ID)
		if err != nil {
			t.Fatalf("GetInvoice failed: %v", err)
		}
		if retrieved.RatePerHour != nil || retrieved.HoursBilled != nil {
			t.Errorf("Expected nil optional fields, got %v %v", retrieved.RatePerHour, retrieved.HoursBilled)
		}
		if retrieved.Status != models.InvoiceStatusPaid {
			t.Errorf("Expected status paid, got %q", retrieved.Status)
		}
		if len(retrieved.TimeEntryIDs) != 0 {
			t.Errorf("Expected no time entry IDs, got %v", retrieved.TimeEntryIDs)
		}
	})

	t.Run("CreateInvoice rejects unknown status", func(t *testing.T) {
		invoice := &models.Invoice{FreelancerID: "f1", ClientName: "Acme", Status: "archived"}
		if err := store.CreateInvoice(ctx, invoice); !errors.Is(err, storage.ErrInvalidRecord) {
			t.Errorf("Expected ErrInvalidRecord, got %v", err)
		}
	})

	t.Run("ListInvoices orders by GeneratedAt", func(t *testing.T) {
		invoices, err := store.ListInvoices(ctx)
		if err != nil {
			t.Fatalf("ListInvoices failed: %v", err)
		}
		if len(invoices) != 2 {
			t.Fatalf("Expected 2 invoices, got %d", len(invoices))
		}
		for i := 1; i < len(invoices); i++ {
			if invoices[i].GeneratedAt.After(invoices[i-1].GeneratedAt) {
				t.Errorf("Invoices not sorted newest first: %v after %v",
					invoices[i].GeneratedAt, invoices[i-1].GeneratedAt)
			}
		}

		var withLinks int
		for _, inv := range invoices {
			if len(inv.TimeEntryIDs) > 0 {
				withLinks++
			}
		}
		if withLinks != 1 {
			t.Errorf("Expected 1 invoice with time entry IDs, got %d", withLinks)
		}
	})

	t.Run("DeleteInvoice", func(t *testing.T) {
		invoice := &models.Invoice{FreelancerID: "f1", ClientName: "Gamma", TimeEntryIDs: []string{"x"}}
		if err := store.CreateInvoice(ctx, invoice); err != nil {
			t.Fatalf("CreateInvoice failed: %v", err)
		}

		if err := store.DeleteInvoice(ctx, invoice.ID); err != nil {
			t.Fatalf("DeleteInvoice failed: %v", err)
		}
		if _, err := store.GetInvoice(ctx, invoice.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteInvoice(ctx, invoice.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestClients(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := &models.Client{Name: "Acme", Email: "ap@acme.test", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Client{Name: "Beta", Phone: "555-0100", Address: "1 Main St"}
	for _, c := range []*models.Client{older, newer} {
		if err := store.CreateClient(ctx, c); err != nil {
			t.Fatalf("CreateClient failed: %v", err)
		}
	}

	got, err := store.GetClient(ctx, newer.ID)
	if err != nil {
		t.Fatalf("GetClient failed: %v", err)
	}
	if got.Name != newer.Name || got.Phone != newer.Phone || got.Address != newer.Address ||
		!got.CreatedAt.Equal(newer.CreatedAt) {
		t.Errorf("GetClient = %+v, want %+v", got, newer)
	}

	clients, err := store.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(clients) != 2 || clients[0].ID != newer.ID || clients[1].ID != older.ID {
		t.Errorf("Expected [Beta Acme], got %+v", clients)
	}

	if err := store.DeleteClient(ctx, older.ID); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}
	if err := store.DeleteClient(ctx, older.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.GetClient(ctx, older.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := New(context.Background(), "postgres", "x"); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestNormalizeMySQLDSN(t *testing.T) {
	got, err := normalizeMySQLDSN("user:pass@tcp(localhost:3306)/tracker?parseTime=true")
	if err != nil {
		t.Fatalf("normalizeMySQLDSN failed: %v", err)
	}
	for _, want := range []string{"multiStatements=true", "clientFoundRows=true", "parseTime=true"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in %q", want, got)
		}
	}

	if _, err := normalizeMySQLDSN("not a dsn"); err == nil {
		t.Error("Expected error for invalid DSN")
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
