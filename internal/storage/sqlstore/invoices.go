package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harsh-0015/freelance-tracker/internal/models"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

const invoiceColumns = `id, freelancer_id, freelancer_name, client_name, project,
	total_hours, total_amount, rate_per_hour, hours_billed, status,
	generated_at, created_at, updated_at`

// CreateInvoice persists a new invoice together with its time entry
// references.
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID, invoice.FreelancerID, invoice.FreelancerName, invoice.ClientName, invoice.Project,
		invoice.TotalHours, invoice.TotalAmount, nullFloat(invoice.RatePerHour), nullFloat(invoice.HoursBilled),
		string(invoice.Status),
		toMillis(invoice.GeneratedAt), toMillis(invoice.CreatedAt), toMillis(invoice.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	for i, entryID := range invoice.TimeEntryIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO invoice_time_entries (invoice_id, position, time_entry_id) VALUES (?, ?, ?)",
			invoice.ID, i, entryID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice time entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetInvoice retrieves an invoice by ID.
func (s *Store) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)

	invoice, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	links, err := s.invoiceTimeEntryIDs(ctx, "WHERE invoice_id = ?", id)
	if err != nil {
		return nil, err
	}
	invoice.TimeEntryIDs = links[invoice.ID]

	return invoice, nil
}

// ListInvoices retrieves all invoices, most recently generated first.
func (s *Store) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY generated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := []*models.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	rows.Close()

	if len(invoices) == 0 {
		return invoices, nil
	}

	links, err := s.invoiceTimeEntryIDs(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, invoice := range invoices {
		invoice.TimeEntryIDs = links[invoice.ID]
	}

	return invoices, nil
}

// DeleteInvoice removes an invoice and its time entry references.
func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_time_entries WHERE invoice_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete invoice time entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// invoiceTimeEntryIDs loads time entry references grouped by invoice ID,
// each group in insertion order.
func (s *Store) invoiceTimeEntryIDs(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT invoice_id, time_entry_id FROM invoice_time_entries `+where+` ORDER BY invoice_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice time entries: %w", err)
	}
	defer rows.Close()

	links := make(map[string][]string)
	for rows.Next() {
		var invoiceID, entryID string
		if err := rows.Scan(&invoiceID, &entryID); err != nil {
			return nil, fmt.Errorf("failed to scan invoice time entry: %w", err)
		}
		links[invoiceID] = append(links[invoiceID], entryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice time entries: %w", err)
	}

	return links, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func scanInvoice(row scanner) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	var (
		ratePerHour, hoursBilled    sql.NullFloat64
		status                      string
		generated, created, updated int64
	)

	if err := row.Scan(
		&invoice.ID,
		&invoice.FreelancerID,
		&invoice.FreelancerName,
		&invoice.ClientName,
		&invoice.Project,
		&invoice.TotalHours,
		&invoice.TotalAmount,
		&ratePerHour,
		&hoursBilled,
		&status,
		&generated,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	if ratePerHour.Valid {
		v := ratePerHour.Float64
		invoice.RatePerHour = &v
	}
	if hoursBilled.Valid {
		v := hoursBilled.Float64
		invoice.HoursBilled = &v
	}
	invoice.Status = models.InvoiceStatus(status)
	invoice.GeneratedAt = fromMillis(generated)
	invoice.CreatedAt = fromMillis(created)
	invoice.UpdatedAt = fromMillis(updated)
	return invoice, nil
}
