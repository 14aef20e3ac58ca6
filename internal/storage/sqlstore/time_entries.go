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

const timeEntryColumns = `id, freelancer_id, project, client_name, start_time, end_time,
	description, billable_rate, created_at, updated_at`

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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO time_entries (`+timeEntryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.FreelancerID, entry.Project, entry.ClientName,
		toMillis(entry.StartTime), toMillis(entry.EndTime),
		entry.Description, entry.BillableRate,
		toMillis(entry.CreatedAt), toMillis(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert time entry: %w", err)
	}

	return nil
}

// GetTimeEntry retrieves a time entry by ID.
func (s *Store) GetTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE id = ?`, id)

	entry, err := scanTimeEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
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

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get time entries by IDs: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.TimeEntry, len(ids))
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		byID[entry.ID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	entries := make([]*models.TimeEntry, 0, len(byID))
	for _, id := range ids {
		if entry, ok := byID[id]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ListTimeEntries retrieves all time entries, newest first.
func (s *Store) ListTimeEntries(ctx context.Context) ([]*models.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.TimeEntry{}
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	return entries, nil
}

// UpdateTimeEntry overwrites every mutable field of an existing entry.
func (s *Store) UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	entry.UpdatedAt = time.Now()
	normalizeEntry(entry)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidRecord, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE time_entries
		 SET freelancer_id = ?, project = ?, client_name = ?, start_time = ?, end_time = ?,
		     description = ?, billable_rate = ?, updated_at = ?
		 WHERE id = ?`,
		entry.FreelancerID, entry.Project, entry.ClientName,
		toMillis(entry.StartTime), toMillis(entry.EndTime),
		entry.Description, entry.BillableRate, toMillis(entry.UpdatedAt),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("time entry %s: %w", entry.ID, storage.ErrNotFound)
	}

	return nil
}

// DeleteTimeEntry removes a time entry and returns it as it was stored.
func (s *Store) DeleteTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE id = ?`, id)
	entry, err := scanTimeEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("time entry %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete time entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

func normalizeEntry(entry *models.TimeEntry) {
	entry.StartTime = normalizeTime(entry.StartTime)
	entry.EndTime = normalizeTime(entry.EndTime)
	entry.CreatedAt = normalizeTime(entry.CreatedAt)
	entry.UpdatedAt = normalizeTime(entry.UpdatedAt)
}

func scanTimeEntry(row scanner) (*models.TimeEntry, error) {
	entry := &models.TimeEntry{}
	var start, end, created, updated int64

	if err := row.Scan(
		&entry.ID,
		&entry.FreelancerID,
		&entry.Project,
		&entry.ClientName,
		&start,
		&end,
		&entry.Description,
		&entry.BillableRate,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	entry.StartTime = fromMillis(start)
	entry.EndTime = fromMillis(end)
	entry.CreatedAt = fromMillis(created)
	entry.UpdatedAt = fromMillis(updated)
	return entry, nil
}
