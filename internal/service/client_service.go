package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

const resourceClient = "Client"

// ClientService manages client records. Time entries and invoices refer to
// clients by name, so deleting a client does not touch them.
type ClientService struct {
	store storage.Store
}

// NewClientService creates a new ClientService with the given storage backend.
func NewClientService(store storage.Store) *ClientService {
	return &ClientService{store: store}
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*ClientView, error) {
	slog.Info("CreateClient request received", "name", deref(in.Name))

	client, err := in.validateCreate()
	if err != nil {
		slog.Warn("CreateClient rejected", "error", err)
		return nil, err
	}

	if err := s.store.CreateClient(ctx, client); err != nil {
		slog.Error("CreateClient failed", "error", err)
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	slog.Info("Client created", "client_id", client.ID)
	view := NewClientView(client)
	return &view, nil
}

func (s *ClientService) List(ctx context.Context) ([]ClientView, error) {
	slog.Info("ListClients request received")

	clients, err := s.store.ListClients(ctx)
	if err != nil {
		slog.Error("ListClients failed", "error", err)
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	views := make([]ClientView, len(clients))
	for i, c := range clients {
		views[i] = NewClientView(c)
	}
	return views, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*ClientView, error) {
	slog.Info("GetClient request received", "client_id", id)

	client, err := s.store.GetClient(ctx, id)
	if err != nil {
		slog.Error("GetClient failed", "client_id", id, "error", err)
		return nil, notFound(err, resourceClient, id)
	}

	view := NewClientView(client)
	return &view, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	slog.Info("DeleteClient request received", "client_id", id)

	if err := s.store.DeleteClient(ctx, id); err != nil {
		slog.Error("DeleteClient failed", "client_id", id, "error", err)
		return notFound(err, resourceClient, id)
	}

	slog.Info("Client deleted", "client_id", id)
	return nil
}
