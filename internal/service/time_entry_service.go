package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harsh-0015/freelance-tracker/internal/models"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

const resourceTimeEntry = "Time entry"

// TimeEntryService owns the lifecycle of time entries. Every result carries
// the derived fields computed by the calculator.
type TimeEntryService struct {
	store    storage.Store
	settings Settings
}

// NewTimeEntryService creates a new TimeEntryService with the given storage backend.
func NewTimeEntryService(store storage.Store, settings Settings) *TimeEntryService {
	return &TimeEntryService{store: store, settings: settings.withDefaults()}
}

// Create validates the input and persists a new time entry.
func (s *TimeEntryService) Create(ctx context.Context, in TimeEntryInput) (*TimeEntryView, error) {
	slog.Info("CreateTimeEntry request received",
		"freelancer_id", deref(in.FreelancerID),
		"client_name", deref(in.ClientName),
	)

	entry, err := in.validateCreate(s.settings.Location)
	if err != nil {
		slog.Warn("CreateTimeEntry rejected", "error", err)
		return nil, err
	}

	if err := s.store.CreateTimeEntry(ctx, entry); err != nil {
		slog.Error("CreateTimeEntry failed", "error", err)
		return nil, fmt.Errorf("failed to create time entry: %w", fromStoreError(err))
	}

	slog.Info("Time entry created", "entry_id", entry.ID)
	view := NewTimeEntryView(entry, s.settings.Location)
	return &view, nil
}

// List returns all time entries, newest created first.
func (s *TimeEntryService) List(ctx context.Context) ([]TimeEntryView, error) {
	slog.Info("ListTimeEntries request received")

	entries, err := s.store.ListTimeEntries(ctx)
	if err != nil {
		slog.Error("ListTimeEntries failed", "error", err)
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	entries = visibleEntries(ctx, entries)

	views := make([]TimeEntryView, len(entries))
	for i, e := range entries {
		views[i] = NewTimeEntryView(e, s.settings.Location)
	}

	slog.Info("ListTimeEntries successful", "count", len(views))
	return views, nil
}

// Get returns one time entry.
func (s *TimeEntryService) Get(ctx context.Context, id string) (*TimeEntryView, error) {
	slog.Info("GetTimeEntry request received", "entry_id", id)

	entry, err := s.load(ctx, id)
	if err != nil {
		slog.Error("GetTimeEntry failed", "entry_id", id, "error", err)
		return nil, err
	}

	view := NewTimeEntryView(entry, s.settings.Location)
	return &view, nil
}

// Update applies the fields present in the input to an existing entry.
//
// The entry is read, merged and written back without locking; of two
// concurrent updates to the same entry the last write wins.
func (s *TimeEntryService) Update(ctx context.Context, id string, in TimeEntryInput) (*TimeEntryView, error) {
	slog.Info("UpdateTimeEntry request received", "entry_id", id)

	patch, err := in.validateUpdate(s.settings.Location)
	if err != nil {
		slog.Warn("UpdateTimeEntry rejected", "entry_id", id, "error", err)
		return nil, err
	}

	entry, err := s.load(ctx, id)
	if err != nil {
		slog.Error("UpdateTimeEntry failed", "entry_id", id, "error", err)
		return nil, err
	}

	patch.apply(entry)
	if err := entry.Validate(); err != nil {
		slog.Warn("UpdateTimeEntry rejected", "entry_id", id, "error", err)
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.store.UpdateTimeEntry(ctx, entry); err != nil {
		slog.Error("UpdateTimeEntry failed", "entry_id", id, "error", err)
		return nil, notFound(fromStoreError(err), resourceTimeEntry, id)
	}

	slog.Info("Time entry updated", "entry_id", id)
	view := NewTimeEntryView(entry, s.settings.Location)
	return &view, nil
}

// Delete removes a time entry and returns it as it was before deletion.
func (s *TimeEntryService) Delete(ctx context.Context, id string) (*TimeEntryView, error) {
	slog.Info("DeleteTimeEntry request received", "entry_id", id)

	if scopedFreelancer(ctx) != "" {
		if _, err := s.load(ctx, id); err != nil {
			slog.Error("DeleteTimeEntry failed", "entry_id", id, "error", err)
			return nil, err
		}
	}

	entry, err := s.store.DeleteTimeEntry(ctx, id)
	if err != nil {
		slog.Error("DeleteTimeEntry failed", "entry_id", id, "error", err)
		return nil, notFound(err, resourceTimeEntry, id)
	}

	slog.Info("Time entry deleted", "entry_id", id)
	view := NewTimeEntryView(entry, s.settings.Location)
	return &view, nil
}

// load reads an entry visible under ctx. Entries of another freelancer are
// reported as not found.
func (s *TimeEntryService) load(ctx context.Context, id string) (*models.TimeEntry, error) {
	entry, err := s.store.GetTimeEntry(ctx, id)
	if err != nil {
		return nil, notFound(err, resourceTimeEntry, id)
	}
	if !visibleTo(ctx, entry.FreelancerID) {
		return nil, &NotFoundError{Resource: resourceTimeEntry, ID: id}
	}
	return entry, nil
}
